package domain

const (
	AssetTypePrimaryImage = "P04"
	DescriptionTypeShort  = "SHO"
)

// FitmentRecord is one vehicle-specific part returned by the fitment API. Never persisted.
type FitmentRecord struct {
	BrandCode       string               `json:"brandCode"`
	BrandName       string               `json:"brandName"`
	PartNumber      string               `json:"partNumber"`
	PartTypeID      int64                `json:"partTypeId"` // Terminology id of the part type
	CategoryName    string               `json:"categoryName"`
	SubCategoryName string               `json:"subCategoryName"`
	PartTypeName    string               `json:"partTypeName"`
	Descriptions    []Description        `json:"descriptions"`
	Assets          []DigitalAsset       `json:"digitalAssets"`
	Applications    []FitmentApplication `json:"applications"`
}

type Description struct {
	TypeCode string `json:"descriptionTypeCode"`
	Value    string `json:"value"`
}

type DigitalAsset struct {
	TypeCode    string `json:"assetTypeCode"`
	ImageURL200 string `json:"imageURL200"`
}

// FitmentApplication describes how the part fits the vehicle
type FitmentApplication struct {
	MfrLabel string   `json:"mfrLabel"`
	Position string   `json:"position"`
	Notes    []string `json:"notes,omitempty"`
}

func (r FitmentRecord) Key() ProductKey {
	return ProductKey{BrandCode: r.BrandCode, PartNumber: r.PartNumber}
}

// PrimaryImage returns the 200px URL of the primary image asset, or ""
func (r FitmentRecord) PrimaryImage() string {
	for _, asset := range r.Assets {
		if asset.TypeCode == AssetTypePrimaryImage {
			return asset.ImageURL200
		}
	}
	return ""
}

// ShortDescription prefers the SHO description and falls back to the first one
func (r FitmentRecord) ShortDescription() string {
	for _, d := range r.Descriptions {
		if d.TypeCode == DescriptionTypeShort {
			return d.Value
		}
	}
	if len(r.Descriptions) > 0 {
		return r.Descriptions[0].Value
	}
	return ""
}

// FirstApplication returns the first fitment application; ok is false when there is none
func (r FitmentRecord) FirstApplication() (FitmentApplication, bool) {
	if len(r.Applications) == 0 {
		return FitmentApplication{}, false
	}
	return r.Applications[0], true
}
