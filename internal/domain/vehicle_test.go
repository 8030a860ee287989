package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVehicleSelectionReady(t *testing.T) {
	var empty VehicleSelection
	assert.True(t, empty.Ready(StageRegion))
	assert.False(t, empty.Ready(StageVehicleType))

	sel := VehicleSelection{RegionID: 1, VehicleTypeIDs: []int{5, 6}, Year: 2020}
	assert.True(t, sel.Ready(StageMake))
	assert.False(t, sel.Ready(StageModel))
}

func TestVehicleSelectionWithClearsDownstream(t *testing.T) {
	sel := VehicleSelection{RegionID: 1, VehicleTypeIDs: []int{5}, Year: 2020, MakeID: 54, ModelID: 660}

	next := sel.With(StageYear, 2019)
	assert.Equal(t, VehicleSelection{RegionID: 1, VehicleTypeIDs: []int{5}, Year: 2019}, next)

	types := sel.With(StageVehicleType, 5, 6, 7)
	assert.Equal(t, []int{5, 6, 7}, types.VehicleTypeIDs)
	assert.Zero(t, types.Year)
	assert.Zero(t, types.ModelID)

	// the original is untouched
	assert.Equal(t, 660, sel.ModelID)

	cleared := sel.With(StageRegion)
	assert.Equal(t, VehicleSelection{}, cleared)
}

func TestParseVehicleStage(t *testing.T) {
	stage, ok := ParseVehicleStage("make")
	assert.True(t, ok)
	assert.Equal(t, StageMake, stage)
	assert.Equal(t, "makeFacets", stage.FacetName())

	_, ok = ParseVehicleStage("trim")
	assert.False(t, ok)
}
