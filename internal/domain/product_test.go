package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductKey(t *testing.T) {
	tests := []struct {
		name    string
		product StoreProduct
		want    ProductKey
		ok      bool
	}{
		{
			name:    "tag",
			product: StoreProduct{Tags: Tags{"sale", "BRD_12345"}},
			want:    ProductKey{BrandCode: "BRD", PartNumber: "12345"},
			ok:      true,
		},
		{
			name:    "split on first underscore",
			product: StoreProduct{Tags: Tags{"ACME_AB_12"}},
			want:    ProductKey{BrandCode: "ACME", PartNumber: "AB_12"},
			ok:      true,
		},
		{
			name: "option wins over tag",
			product: StoreProduct{
				Tags:    Tags{"BRD_12345"},
				Options: []ProductOption{{Name: "OcCatalog", Values: []string{"XYZ", "99"}}},
			},
			want: ProductKey{BrandCode: "XYZ", PartNumber: "99"},
			ok:   true,
		},
		{
			name: "short option falls back to tag",
			product: StoreProduct{
				Tags:    Tags{"BRD_1"},
				Options: []ProductOption{{Name: "occatalog", Values: []string{"XYZ"}}},
			},
			want: ProductKey{BrandCode: "BRD", PartNumber: "1"},
			ok:   true,
		},
		{name: "leading underscore", product: StoreProduct{Tags: Tags{"_123"}}},
		{name: "trailing underscore", product: StoreProduct{Tags: Tags{"BRD_"}}},
		{name: "no underscore", product: StoreProduct{Tags: Tags{"brakes"}}},
		{name: "nothing", product: StoreProduct{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseProductKey(tt.product)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStoreProductDecoding(t *testing.T) {
	body := `{
		"id": 42,
		"title": "Brake Pad",
		"handle": "brake-pad",
		"tags": "front, BRD_12345",
		"options": [{"name": "occatalog", "values": ["BRD", "12345"]}],
		"variants": [{"id": 4201, "price": "19.99"}]
	}`

	var p StoreProduct
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	assert.Equal(t, Tags{"front", "BRD_12345"}, p.Tags)

	entry, ok := NewStoreProductEntry(p)
	require.True(t, ok)
	assert.Equal(t, ProductKey{BrandCode: "BRD", PartNumber: "12345"}, entry.Key())
	assert.Equal(t, int64(4201), entry.VariantID)
	assert.True(t, decimal.RequireFromString("19.99").Equal(entry.Price))
}

func TestNewStoreProductEntryRequiresVariant(t *testing.T) {
	_, ok := NewStoreProductEntry(StoreProduct{ID: 1, Tags: Tags{"BRD_1"}})
	assert.False(t, ok)
}
