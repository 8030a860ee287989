package domain

import "github.com/shopspring/decimal"

// MatchedResult pairs a fitment record with the single store product sharing its key
type MatchedResult struct {
	Record  FitmentRecord     `json:"record"`
	Product StoreProductEntry `json:"product"`
}

// PartView is the card shown for a matched result
type PartView struct {
	BrandCode       string          `json:"brandCode"`
	BrandName       string          `json:"brandName"`
	PartNumber      string          `json:"partNumber"`
	PartTypeID      int64           `json:"partTypeId"`
	CategoryName    string          `json:"categoryName"`
	SubCategoryName string          `json:"subCategoryName"`
	PartTypeName    string          `json:"partTypeName"`
	Description     string          `json:"description"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	MfrLabel        string          `json:"mfrLabel,omitempty"`
	Position        string          `json:"position,omitempty"`
	Notes           []string        `json:"notes,omitempty"`
	ProductID       int64           `json:"productId"`
	VariantID       int64           `json:"variantId"`
	ProductTitle    string          `json:"productTitle"`
	ProductHandle   string          `json:"productHandle"`
	Price           decimal.Decimal `json:"price"`
}

func NewPartView(m MatchedResult) PartView {
	view := PartView{
		BrandCode:       m.Record.BrandCode,
		BrandName:       m.Record.BrandName,
		PartNumber:      m.Record.PartNumber,
		PartTypeID:      m.Record.PartTypeID,
		CategoryName:    m.Record.CategoryName,
		SubCategoryName: m.Record.SubCategoryName,
		PartTypeName:    m.Record.PartTypeName,
		Description:     m.Record.ShortDescription(),
		ImageURL:        m.Record.PrimaryImage(),
		ProductID:       m.Product.ProductID,
		VariantID:       m.Product.VariantID,
		ProductTitle:    m.Product.Title,
		ProductHandle:   m.Product.Handle,
		Price:           m.Product.Price,
	}

	if app, ok := m.Record.FirstApplication(); ok {
		view.MfrLabel = app.MfrLabel
		view.Position = app.Position
		view.Notes = app.Notes
	}

	return view
}
