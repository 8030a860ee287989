package search

import "ymm/catalog/internal/domain"

// Match keeps the records whose key is in the index, in record order.
// The comparison is exact and case-sensitive.
func Match(records []domain.FitmentRecord, index *ProductIndex) []domain.MatchedResult {
	matches := make([]domain.MatchedResult, 0, len(records))
	if index == nil {
		return matches
	}

	for _, record := range records {
		product, ok := index.Lookup(record.Key())
		if !ok {
			continue
		}
		matches = append(matches, domain.MatchedResult{Record: record, Product: product})
	}

	return matches
}
