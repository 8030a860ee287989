package domain

// VehicleStage is one step of the Region -> VehicleType -> Year -> Make -> Model cascade
type VehicleStage int

const (
	StageRegion VehicleStage = iota
	StageVehicleType
	StageYear
	StageMake
	StageModel
)

var VehicleStages = []VehicleStage{
	StageRegion,
	StageVehicleType,
	StageYear,
	StageMake,
	StageModel,
}

func (s VehicleStage) String() string {
	switch s {
	case StageRegion:
		return "region"
	case StageVehicleType:
		return "vehicleType"
	case StageYear:
		return "year"
	case StageMake:
		return "make"
	case StageModel:
		return "model"
	default:
		return "unknown"
	}
}

// FacetName is the facet key of the stage in fitment API requests and responses
func (s VehicleStage) FacetName() string {
	return s.String() + "Facets"
}

// ParseVehicleStage maps a stage name back to its value
func ParseVehicleStage(name string) (VehicleStage, bool) {
	for _, stage := range VehicleStages {
		if stage.String() == name {
			return stage, true
		}
	}
	return 0, false
}

const (
	// DefaultRegionID is pre-selected when the region facet contains it
	DefaultRegionID = 1

	// CombinedVehicleTypeLabel names the merged Car/Truck/Van option
	CombinedVehicleTypeLabel = "Car-Truck-Van"
)

// CombinedVehicleTypes are the vehicle type names folded into one option
var CombinedVehicleTypes = []string{"Car", "Truck", "Van"}
