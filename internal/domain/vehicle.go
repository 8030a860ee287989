package domain

import "slices"

// FacetOption is one entry of a cascading selector
type FacetOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// VehicleSelection is the state of the cascade. Zero values mean "not selected".
type VehicleSelection struct {
	RegionID       int   `json:"regionId"`
	VehicleTypeIDs []int `json:"vehicleTypeIds"`
	Year           int   `json:"year"`
	MakeID         int   `json:"makeId"`
	ModelID        int   `json:"modelId"`
}

// Has reports whether stage has a value
func (s VehicleSelection) Has(stage VehicleStage) bool {
	switch stage {
	case StageRegion:
		return s.RegionID > 0
	case StageVehicleType:
		return len(s.VehicleTypeIDs) > 0
	case StageYear:
		return s.Year > 0
	case StageMake:
		return s.MakeID > 0
	case StageModel:
		return s.ModelID > 0
	default:
		return false
	}
}

// Ready reports whether the options of stage may be loaded: every upstream stage must be selected
func (s VehicleSelection) Ready(stage VehicleStage) bool {
	for _, upstream := range VehicleStages {
		if upstream >= stage {
			return true
		}
		if !s.Has(upstream) {
			return false
		}
	}
	return true
}

// With returns a copy with stage set to values and every downstream stage cleared
func (s VehicleSelection) With(stage VehicleStage, values ...int) VehicleSelection {
	next := s.Clear(stage)

	first := 0
	if len(values) > 0 {
		first = values[0]
	}

	switch stage {
	case StageRegion:
		next.RegionID = first
	case StageVehicleType:
		next.VehicleTypeIDs = slices.Clone(values)
	case StageYear:
		next.Year = first
	case StageMake:
		next.MakeID = first
	case StageModel:
		next.ModelID = first
	}
	return next
}

// Clear returns a copy with stage and everything after it unset
func (s VehicleSelection) Clear(from VehicleStage) VehicleSelection {
	next := s
	next.VehicleTypeIDs = slices.Clone(s.VehicleTypeIDs)
	for _, stage := range VehicleStages {
		if stage < from {
			continue
		}
		switch stage {
		case StageRegion:
			next.RegionID = 0
		case StageVehicleType:
			next.VehicleTypeIDs = nil
		case StageYear:
			next.Year = 0
		case StageMake:
			next.MakeID = 0
		case StageModel:
			next.ModelID = 0
		}
	}
	return next
}

// BaseVehicle is a (year, make, model) resolved to a canonical id
type BaseVehicle struct {
	ID       int64 `json:"baseVehicleId"`
	RegionID int   `json:"regionId"`
	Year     int   `json:"year"`
	MakeID   int   `json:"makeId"`
	ModelID  int   `json:"modelId"`
}

// SearchData is the last search of a session, kept so a results view can be rebuilt after navigation
type SearchData struct {
	Year          int     `json:"year"`
	Make          string  `json:"make"`
	Model         string  `json:"model"`
	MakeID        int     `json:"makeId"`
	ModelID       int     `json:"modelId"`
	BaseVehicleID int64   `json:"baseVehicleId"`
	RegionID      int     `json:"regionId"`
	PartTypeIDs   []int64 `json:"partTypeIds,omitempty"`
	Timestamp     int64   `json:"timestamp"` // Unix milliseconds
}

// PartsQuery is the input of a paginated parts fetch
type PartsQuery struct {
	BaseVehicleID int64
	RegionID      int
	PartTypeIDs   []int64
}

func (d SearchData) Query() PartsQuery {
	return PartsQuery{
		BaseVehicleID: d.BaseVehicleID,
		RegionID:      d.RegionID,
		PartTypeIDs:   d.PartTypeIDs,
	}
}
