package domain

import "time"

// Category is the root of the stored taxonomy. Name is unique per shop.
type Category struct {
	ID            int64         `json:"id"`
	Shop          string        `json:"shop,omitempty"` // Shop domain, empty for the default store
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Order         int           `json:"order"`
	Subcategories []Subcategory `json:"subcategories"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type CategoryInput struct {
	Shop        string
	Name        string
	Description string
	Order       int
}

// CategoryUpdate changes only the fields that are set
type CategoryUpdate struct {
	Name        *string
	Description *string
	Order       *int
}

// CategoryTree is the full Category -> Subcategory -> PartType hierarchy, ordered by name at every level
type CategoryTree []Category

// PartTypeCount returns the number of leaves in the tree
func (t CategoryTree) PartTypeCount() int {
	count := 0
	for _, category := range t {
		for _, sub := range category.Subcategories {
			count += len(sub.PartTypes)
		}
	}
	return count
}

// TerminologyIDs returns every terminology id present in the tree, in tree order
func (t CategoryTree) TerminologyIDs() []int64 {
	ids := make([]int64, 0)
	for _, category := range t {
		for _, sub := range category.Subcategories {
			for _, pt := range sub.PartTypes {
				if pt.TerminologyID != nil {
					ids = append(ids, *pt.TerminologyID)
				}
			}
		}
	}
	return ids
}
