package domain

import "time"

// Subcategory belongs to exactly one Category. Name is unique within the parent.
type Subcategory struct {
	ID          int64      `json:"id"`
	CategoryID  int64      `json:"categoryId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Order       int        `json:"order"`
	PartTypes   []PartType `json:"partTypes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type SubcategoryInput struct {
	CategoryID  int64
	Name        string
	Description string
	Order       int
}

// SubcategoryUpdate changes only the fields that are set. The parent is fixed at creation.
type SubcategoryUpdate struct {
	Name        *string
	Description *string
	Order       *int
}
