package client

import (
	"encoding/json"

	"ymm/catalog/internal/domain"
)

// facetPage asks the fitment API for one page of a facet's counts
type facetPage struct {
	Enabled bool `json:"enabled"`
	Page    int  `json:"page"`
	PerPage int  `json:"perPage"`
}

type searchRequest struct {
	GetAutoCareSearchResults searchParams `json:"getAutoCareSearchResults"`
}

type searchParams struct {
	BaseVehicleID       int64   `json:"baseVehicleId"`
	BaseVehicleRegionID int     `json:"baseVehicleRegionId"`
	PartTypeIDs         []int64 `json:"partTypeIds,omitempty"`
	IncludeParts        bool    `json:"includeParts"`
	IncludePartFitments bool    `json:"includePartFitments"`
	PerPage             int     `json:"perPage"`
	Page                int     `json:"page"`
}

type searchResponse struct {
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	PiesItem struct {
		BrandCode         string                `json:"brandCode"`
		BrandName         string                `json:"brandName"`
		PartNumber        string                `json:"partNumber"`
		PartTypeID        int64                 `json:"partTypeId"`
		PartTerminologyID int64                 `json:"partTerminologyId"`
		CategoryName      string                `json:"categoryName"`
		SubCategoryName   string                `json:"subCategoryName"`
		PartTypeName      string                `json:"partTypeName"`
		Descriptions      []domain.Description  `json:"descriptions"`
		DigitalAssets     []domain.DigitalAsset `json:"digitalAssets"`
	} `json:"piesItem"`
	Fitments []struct {
		AcesApp struct {
			MfrLabel   string `json:"mfrLabel"`
			Attributes []struct {
				AttributeValueName string `json:"attributeValueName"`
			} `json:"attributes"`
			Notes noteList `json:"notes"`
		} `json:"acesApp"`
	} `json:"fitments"`
}

func (p wirePart) record() domain.FitmentRecord {
	item := p.PiesItem

	rec := domain.FitmentRecord{
		BrandCode:       item.BrandCode,
		BrandName:       item.BrandName,
		PartNumber:      item.PartNumber,
		PartTypeID:      item.PartTypeID,
		CategoryName:    item.CategoryName,
		SubCategoryName: item.SubCategoryName,
		PartTypeName:    item.PartTypeName,
		Descriptions:    item.Descriptions,
		Assets:          item.DigitalAssets,
		Applications:    make([]domain.FitmentApplication, 0, len(p.Fitments)),
	}
	if rec.PartTypeID == 0 {
		rec.PartTypeID = item.PartTerminologyID
	}

	for _, f := range p.Fitments {
		app := domain.FitmentApplication{
			MfrLabel: f.AcesApp.MfrLabel,
			Notes:    f.AcesApp.Notes,
		}
		if len(f.AcesApp.Attributes) > 0 {
			app.Position = f.AcesApp.Attributes[0].AttributeValueName
		}
		rec.Applications = append(rec.Applications, app)
	}

	return rec
}

// noteList accepts a single string, a list of strings, or a list of {"value": "..."} objects
type noteList []string

func (n *noteList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var single string
		if json.Unmarshal(data, &single) != nil {
			return err
		}
		*n = noteList{single}
		return nil
	}

	notes := make([]string, 0, len(raw))
	for _, r := range raw {
		var text string
		if err := json.Unmarshal(r, &text); err == nil {
			notes = append(notes, text)
			continue
		}

		var obj struct {
			Value string `json:"value"`
			Note  string `json:"note"`
		}
		if err := json.Unmarshal(r, &obj); err != nil {
			return err
		}
		if obj.Value != "" {
			notes = append(notes, obj.Value)
		} else if obj.Note != "" {
			notes = append(notes, obj.Note)
		}
	}

	*n = notes
	return nil
}

// FacetCount is one bucket of a vehicle facet. Only the fields of the requested facet are set.
type FacetCount struct {
	RegionID        int    `json:"regionId"`
	RegionAbbr      string `json:"regionAbbr"`
	VehicleTypeID   int    `json:"vehicleTypeId"`
	VehicleTypeName string `json:"vehicleTypeName"`
	Year            int    `json:"year"`
	MakeID          int    `json:"makeId"`
	MakeName        string `json:"makeName"`
	ModelID         int    `json:"modelId"`
	ModelName       string `json:"modelName"`
	BaseVehicleID   int64  `json:"baseVehicleId"`
	Count           int    `json:"count"`
}

type facetResponse struct {
	Counts []FacetCount `json:"counts"`
}

// vehicleParams builds the getAutoCareVehicleResults body for one facet
func vehicleParams(facet string, sel vehicleFilter, perPage int) map[string]any {
	params := map[string]any{
		facet: facetPage{Enabled: true, Page: 1, PerPage: perPage},
	}
	if len(sel.RegionIDs) > 0 {
		params["regionIds"] = sel.RegionIDs
	}
	if len(sel.VehicleTypeIDs) > 0 {
		params["vehicleTypeIds"] = sel.VehicleTypeIDs
	}
	if len(sel.Years) > 0 {
		params["years"] = sel.Years
	}
	if len(sel.MakeIDs) > 0 {
		params["makeIds"] = sel.MakeIDs
	}
	if len(sel.ModelIDs) > 0 {
		params["modelIds"] = sel.ModelIDs
	}

	return map[string]any{"getAutoCareVehicleResults": params}
}

type vehicleFilter struct {
	RegionIDs      []int
	VehicleTypeIDs []int
	Years          []int
	MakeIDs        []int
	ModelIDs       []int
}

// filterFor narrows a facet request to the stages upstream of stage
func filterFor(stage domain.VehicleStage, sel domain.VehicleSelection) vehicleFilter {
	var f vehicleFilter
	if stage > domain.StageRegion && sel.RegionID > 0 {
		f.RegionIDs = []int{sel.RegionID}
	}
	if stage > domain.StageVehicleType {
		f.VehicleTypeIDs = sel.VehicleTypeIDs
	}
	if stage > domain.StageYear && sel.Year > 0 {
		f.Years = []int{sel.Year}
	}
	if stage > domain.StageMake && sel.MakeID > 0 {
		f.MakeIDs = []int{sel.MakeID}
	}
	return f
}
