package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/service"
)

type resolveRequest struct {
	Year    int `json:"year" binding:"required,gt=0"`
	MakeID  int `json:"makeId" binding:"required,gt=0"`
	ModelID int `json:"modelId" binding:"required,gt=0"`
}

// vehicleOptions returns a handler listing the options of stage for the selection in the query string
func (h *Handler) vehicleOptions(stage domain.VehicleStage) gin.HandlerFunc {
	return func(c *gin.Context) {
		sel, err := selectionFromQuery(c)
		if err != nil {
			respondError(c, err, "")
			return
		}

		options, err := h.vehicles.Options(c.Request.Context(), stage, sel)
		if err != nil {
			respondError(c, err, "Failed to load "+stage.String()+" options")
			return
		}
		respondOK(c, http.StatusOK, gin.H{"options": options, "enabled": sel.Ready(stage)})
	}
}

func (h *Handler) resolveVehicle(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "")
		return
	}

	vehicle, err := h.vehicles.Resolve(c.Request.Context(), req.Year, req.MakeID, req.ModelID)
	if err != nil {
		respondError(c, err, "Failed to resolve vehicle")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"vehicle": vehicle})
}

func selectionFromQuery(c *gin.Context) (domain.VehicleSelection, error) {
	var (
		sel domain.VehicleSelection
		err error
	)

	if sel.RegionID, err = queryInt(c, "region"); err != nil {
		return sel, err
	}
	if sel.VehicleTypeIDs, err = service.ParseVehicleTypeIDs(c.Query("type")); err != nil {
		return sel, err
	}
	if sel.Year, err = queryInt(c, "year"); err != nil {
		return sel, err
	}
	if sel.MakeID, err = queryInt(c, "make"); err != nil {
		return sel, err
	}
	if sel.ModelID, err = queryInt(c, "model"); err != nil {
		return sel, err
	}
	return sel, nil
}
