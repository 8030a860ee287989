package search

import (
	"slices"
	"sort"

	"ymm/catalog/internal/domain"
)

// Filter narrows the aggregate without refetching. Within one dimension any listed value
// matches; dimensions combine with AND. An empty dimension does not filter, so the zero
// Filter keeps everything.
type Filter struct {
	TerminologyIDs []int64  `json:"terminologyIds"`
	Categories     []string `json:"categories"`
	SubCategories  []string `json:"subCategories"`
	PartTypes      []string `json:"partTypes"`
}

func (f Filter) IsZero() bool {
	return len(f.TerminologyIDs) == 0 && len(f.Categories) == 0 && len(f.SubCategories) == 0 && len(f.PartTypes) == 0
}

func (f Filter) Allows(m domain.MatchedResult) bool {
	r := m.Record
	switch {
	case len(f.TerminologyIDs) > 0 && !slices.Contains(f.TerminologyIDs, r.PartTypeID):
		return false
	case len(f.Categories) > 0 && !slices.Contains(f.Categories, r.CategoryName):
		return false
	case len(f.SubCategories) > 0 && !slices.Contains(f.SubCategories, r.SubCategoryName):
		return false
	case len(f.PartTypes) > 0 && !slices.Contains(f.PartTypes, r.PartTypeName):
		return false
	}
	return true
}

// Apply returns the results f allows, preserving order
func (f Filter) Apply(results []domain.MatchedResult) []domain.MatchedResult {
	if f.IsZero() {
		return slices.Clone(results)
	}

	out := make([]domain.MatchedResult, 0, len(results))
	for _, m := range results {
		if f.Allows(m) {
			out = append(out, m)
		}
	}
	return out
}

// FilterOptions are the distinct names present in the aggregate, sorted
type FilterOptions struct {
	Categories    []string `json:"categories"`
	SubCategories []string `json:"subCategories"`
	PartTypes     []string `json:"partTypes"`
}

func BuildFilterOptions(results []domain.MatchedResult) FilterOptions {
	categories := make(map[string]struct{})
	subCategories := make(map[string]struct{})
	partTypes := make(map[string]struct{})

	for _, m := range results {
		if m.Record.CategoryName != "" {
			categories[m.Record.CategoryName] = struct{}{}
		}
		if m.Record.SubCategoryName != "" {
			subCategories[m.Record.SubCategoryName] = struct{}{}
		}
		if m.Record.PartTypeName != "" {
			partTypes[m.Record.PartTypeName] = struct{}{}
		}
	}

	return FilterOptions{
		Categories:    sortedKeys(categories),
		SubCategories: sortedKeys(subCategories),
		PartTypes:     sortedKeys(partTypes),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FilterTree is the stored taxonomy rendered as collapsible checkbox groups
type FilterTree struct {
	Categories []FilterCategory `json:"categories"`
}

type FilterCategory struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Subcategories []FilterSubcategory `json:"subcategories"`
}

type FilterSubcategory struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	PartTypes []FilterCheckbox `json:"partTypes"`
}

// FilterCheckbox is one part type leaf, keyed by its terminology id
type FilterCheckbox struct {
	PartTypeID    int64  `json:"partTypeId"`
	Name          string `json:"name"`
	TerminologyID int64  `json:"terminologyId"`
	Checked       bool   `json:"checked"`
}

// BuildFilterTree mirrors tree, marking the leaves whose terminology id is in f.
// Part types without a terminology id cannot filter results and get no checkbox.
func BuildFilterTree(tree domain.CategoryTree, f Filter) FilterTree {
	out := FilterTree{Categories: make([]FilterCategory, 0, len(tree))}

	for _, category := range tree {
		fc := FilterCategory{
			ID:            category.ID,
			Name:          category.Name,
			Subcategories: make([]FilterSubcategory, 0, len(category.Subcategories)),
		}

		for _, sub := range category.Subcategories {
			fs := FilterSubcategory{
				ID:        sub.ID,
				Name:      sub.Name,
				PartTypes: make([]FilterCheckbox, 0, len(sub.PartTypes)),
			}

			for _, pt := range sub.PartTypes {
				if pt.TerminologyID == nil {
					continue
				}
				fs.PartTypes = append(fs.PartTypes, FilterCheckbox{
					PartTypeID:    pt.ID,
					Name:          pt.Name,
					TerminologyID: *pt.TerminologyID,
					Checked:       slices.Contains(f.TerminologyIDs, *pt.TerminologyID),
				})
			}

			fc.Subcategories = append(fc.Subcategories, fs)
		}

		out.Categories = append(out.Categories, fc)
	}

	return out
}
