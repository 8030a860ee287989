package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewPartView(t *testing.T) {
	m := MatchedResult{
		Record: FitmentRecord{
			BrandCode:  "BRD",
			PartNumber: "12345",
			Descriptions: []Description{
				{TypeCode: "DES", Value: "long text"},
				{TypeCode: DescriptionTypeShort, Value: "Brake pad"},
			},
			Assets: []DigitalAsset{
				{TypeCode: "P01", ImageURL200: "http://img/p01"},
				{TypeCode: AssetTypePrimaryImage, ImageURL200: "http://img/p04"},
			},
			Applications: []FitmentApplication{{MfrLabel: "Front", Position: "Front Left"}},
		},
		Product: StoreProductEntry{ProductID: 1, VariantID: 11, Title: "Pad", Price: decimal.NewFromInt(20)},
	}

	view := NewPartView(m)
	assert.Equal(t, "Brake pad", view.Description)
	assert.Equal(t, "http://img/p04", view.ImageURL)
	assert.Equal(t, "Front", view.MfrLabel)
	assert.Equal(t, "Front Left", view.Position)
	assert.Equal(t, int64(11), view.VariantID)
}

func TestNewPartViewWithSparseRecord(t *testing.T) {
	view := NewPartView(MatchedResult{Record: FitmentRecord{
		Descriptions: []Description{{TypeCode: "DES", Value: "only one"}},
	}})

	assert.Equal(t, "only one", view.Description)
	assert.Empty(t, view.ImageURL)
	assert.Empty(t, view.MfrLabel)
}

func TestCategoryTreeHelpers(t *testing.T) {
	id := int64(1896)
	tree := CategoryTree{{
		Name: "Brakes",
		Subcategories: []Subcategory{{
			Name: "Pads",
			PartTypes: []PartType{
				{Name: "Disc Brake Pad", TerminologyID: &id},
				{Name: "Shim"},
			},
		}},
	}}

	assert.Equal(t, 2, tree.PartTypeCount())
	assert.Equal(t, []int64{1896}, tree.TerminologyIDs())
}

func TestResultSummaryString(t *testing.T) {
	assert.Equal(t, "No parts found", ResultSummary{}.String())
	assert.Equal(t, "Showing 21-40 of 45 parts", ResultSummary{From: 21, To: 40, Total: 45}.String())
}
