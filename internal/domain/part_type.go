package domain

import "time"

// PartType is a leaf of the taxonomy. TerminologyID is the optional numeric
// code from the external part-type standard and is what search filters match on.
type PartType struct {
	ID            int64     `json:"id"`
	SubcategoryID int64     `json:"subCategoryId"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	TerminologyID *int64    `json:"terminologyId"`
	Order         int       `json:"order"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type PartTypeInput struct {
	SubcategoryID int64
	Name          string
	Description   string
	TerminologyID *int64
	Order         int
}

// PartTypeUpdate changes only the fields that are set. An omitted TerminologyID keeps the stored one.
type PartTypeUpdate struct {
	Name          *string
	Description   *string
	Order         *int
	TerminologyID *int64
}
