package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/client"
	"ymm/catalog/internal/domain"
)

// VehicleFacets is the part of the fitment client the selector cascade needs
type VehicleFacets interface {
	Facets(ctx context.Context, stage domain.VehicleStage, sel domain.VehicleSelection) ([]client.FacetCount, error)
	ResolveBaseVehicle(ctx context.Context, year, makeID, modelID int) (*domain.BaseVehicle, error)
}

// VehicleService drives the Region -> VehicleType -> Year -> Make -> Model cascade
type VehicleService struct {
	facets VehicleFacets
}

func NewVehicleService(facets VehicleFacets) *VehicleService {
	return &VehicleService{facets: facets}
}

// Options lists the choices of stage. Until every upstream stage is selected the list is empty
// and no request is made.
func (s *VehicleService) Options(ctx context.Context, stage domain.VehicleStage, sel domain.VehicleSelection) ([]domain.FacetOption, error) {
	if !sel.Ready(stage) {
		return []domain.FacetOption{}, nil
	}

	counts, err := s.facets.Facets(ctx, stage, sel.Clear(stage))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s options: %w", stage, err)
	}

	if stage == domain.StageVehicleType {
		return vehicleTypeOptions(counts), nil
	}

	options := make([]domain.FacetOption, 0, len(counts))
	for _, c := range counts {
		options = append(options, facetOption(stage, c))
	}

	log.Debugf("Loaded %d %s options", len(options), stage)
	return options, nil
}

// Resolve turns (year, make, model) into the base vehicle id used by parts searches.
// Zero matches is a NoMatch error and is not retried.
func (s *VehicleService) Resolve(ctx context.Context, year, makeID, modelID int) (*domain.BaseVehicle, error) {
	if year <= 0 || makeID <= 0 || modelID <= 0 {
		return nil, domain.NewValidationError("vehicle.resolve", "year, makeId and modelId are required", nil)
	}

	vehicle, err := s.facets.ResolveBaseVehicle(ctx, year, makeID, modelID)
	if err != nil {
		return nil, err
	}

	log.Infof("🚗 Resolved %d/%d/%d to base vehicle %d", year, makeID, modelID, vehicle.ID)
	return vehicle, nil
}

func facetOption(stage domain.VehicleStage, c client.FacetCount) domain.FacetOption {
	switch stage {
	case domain.StageRegion:
		return domain.FacetOption{
			Value:    strconv.Itoa(c.RegionID),
			Label:    c.RegionAbbr,
			Selected: c.RegionID == domain.DefaultRegionID,
		}
	case domain.StageYear:
		year := strconv.Itoa(c.Year)
		return domain.FacetOption{Value: year, Label: year}
	case domain.StageMake:
		return domain.FacetOption{Value: strconv.Itoa(c.MakeID), Label: c.MakeName}
	case domain.StageModel:
		return domain.FacetOption{Value: strconv.Itoa(c.ModelID), Label: c.ModelName}
	default:
		return domain.FacetOption{Value: strconv.Itoa(c.VehicleTypeID), Label: c.VehicleTypeName}
	}
}

// vehicleTypeOptions folds Car, Truck and Van into one pre-selected option listed first.
// Its value is the comma separated list of their ids.
func vehicleTypeOptions(counts []client.FacetCount) []domain.FacetOption {
	var (
		combinedIDs   []string
		combinedCount int
		others        []domain.FacetOption
	)

	for _, c := range counts {
		if slices.Contains(domain.CombinedVehicleTypes, c.VehicleTypeName) {
			combinedIDs = append(combinedIDs, strconv.Itoa(c.VehicleTypeID))
			combinedCount += c.Count
			continue
		}
		others = append(others, facetOption(domain.StageVehicleType, c))
	}

	options := make([]domain.FacetOption, 0, len(others)+1)
	if combinedCount > 0 {
		options = append(options, domain.FacetOption{
			Value:    strings.Join(combinedIDs, ","),
			Label:    domain.CombinedVehicleTypeLabel,
			Selected: true,
		})
	}
	return append(options, others...)
}

// ParseVehicleTypeIDs reads a vehicle type option value: one id or a comma separated list
func ParseVehicleTypeIDs(value string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, domain.NewValidationError("vehicle.type", fmt.Sprintf("invalid vehicle type %q", part), err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
