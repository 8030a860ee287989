package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogOptionName is the product option whose first two values carry the brand code and part number
const CatalogOptionName = "occatalog"

// ProductKey joins fitment records to store products. Comparison is exact and case-sensitive.
type ProductKey struct {
	BrandCode  string `json:"brandCode"`
	PartNumber string `json:"partNumber"`
}

func (k ProductKey) String() string {
	return k.BrandCode + "_" + k.PartNumber
}

// StoreProduct is a product as returned by the storefront products.json endpoint
type StoreProduct struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Handle   string           `json:"handle"`
	Tags     Tags             `json:"tags"`
	Options  []ProductOption  `json:"options"`
	Variants []ProductVariant `json:"variants"`
}

type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type ProductVariant struct {
	ID    int64           `json:"id"`
	Price decimal.Decimal `json:"price"`
}

// Tags accepts both a JSON array and the comma separated string form
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}

	*t = nil
	for _, tag := range strings.Split(joined, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			*t = append(*t, tag)
		}
	}
	return nil
}

// StoreProductEntry is the indexed form of a store product
type StoreProductEntry struct {
	BrandCode  string          `json:"brandCode"`
	PartNumber string          `json:"partNumber"`
	ProductID  int64           `json:"productId"`
	VariantID  int64           `json:"variantId"`
	Title      string          `json:"title"`
	Handle     string          `json:"handle"`
	Price      decimal.Decimal `json:"price"`
}

func (e StoreProductEntry) Key() ProductKey {
	return ProductKey{BrandCode: e.BrandCode, PartNumber: e.PartNumber}
}

// ParseProductKey extracts the (brandCode, partNumber) pair of a store product.
//
// The occatalog option wins when it has at least two non-empty values. Otherwise
// the first tag of the form BRAND_PARTNUMBER is used, split on the first underscore.
// ok is false when neither source yields a key; callers exclude such products.
func ParseProductKey(p StoreProduct) (ProductKey, bool) {
	for _, opt := range p.Options {
		if !strings.EqualFold(opt.Name, CatalogOptionName) {
			continue
		}
		if len(opt.Values) >= 2 && opt.Values[0] != "" && opt.Values[1] != "" {
			return ProductKey{BrandCode: opt.Values[0], PartNumber: opt.Values[1]}, true
		}
	}

	for _, tag := range p.Tags {
		brand, part, found := strings.Cut(strings.TrimSpace(tag), "_")
		if found && brand != "" && part != "" {
			return ProductKey{BrandCode: brand, PartNumber: part}, true
		}
	}

	return ProductKey{}, false
}

// NewStoreProductEntry builds the index entry for p. Products without a key or without a variant are skipped.
func NewStoreProductEntry(p StoreProduct) (StoreProductEntry, bool) {
	key, ok := ParseProductKey(p)
	if !ok || len(p.Variants) == 0 {
		return StoreProductEntry{}, false
	}

	return StoreProductEntry{
		BrandCode:  key.BrandCode,
		PartNumber: key.PartNumber,
		ProductID:  p.ID,
		VariantID:  p.Variants[0].ID,
		Title:      p.Title,
		Handle:     p.Handle,
		Price:      p.Variants[0].Price,
	}, true
}
