// Package search joins fitment records to store products and owns the per-session result set.
package search

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/domain"
)

// ProductLister returns the storefront products to index
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.StoreProduct, error)
}

// ProductIndex maps (brandCode, partNumber) to the store product carrying that key
type ProductIndex struct {
	entries map[domain.ProductKey]domain.StoreProductEntry
	skipped int
}

// BuildIndex indexes products by their parsed key. Products without a parseable key are
// skipped, never reported as errors. On a key collision the first product wins.
func BuildIndex(products []domain.StoreProduct) *ProductIndex {
	idx := &ProductIndex{entries: make(map[domain.ProductKey]domain.StoreProductEntry, len(products))}

	for _, p := range products {
		entry, ok := domain.NewStoreProductEntry(p)
		if !ok {
			idx.skipped++
			continue
		}
		if _, exists := idx.entries[entry.Key()]; exists {
			continue
		}
		idx.entries[entry.Key()] = entry
	}

	return idx
}

// LoadIndex fetches the storefront products and indexes them
func LoadIndex(ctx context.Context, lister ProductLister) (*ProductIndex, error) {
	products, err := lister.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load store products: %w", err)
	}

	idx := BuildIndex(products)
	log.Debugf("Indexed %d of %d store products (%d without a catalog key)", idx.Len(), len(products), idx.Skipped())
	return idx, nil
}

func (i *ProductIndex) Lookup(key domain.ProductKey) (domain.StoreProductEntry, bool) {
	entry, ok := i.entries[key]
	return entry, ok
}

func (i *ProductIndex) Len() int {
	return len(i.entries)
}

// Skipped is the number of products left out for lacking a key or a variant
func (i *ProductIndex) Skipped() int {
	return i.skipped
}
