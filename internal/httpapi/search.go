package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/search"
)

type searchRequest struct {
	Year          int     `json:"year" binding:"required,gt=0"`
	Make          string  `json:"make"`
	Model         string  `json:"model"`
	MakeID        int     `json:"makeId" binding:"required,gt=0"`
	ModelID       int     `json:"modelId" binding:"required,gt=0"`
	BaseVehicleID int64   `json:"baseVehicleId" binding:"omitempty,gt=0"`
	RegionID      int     `json:"regionId" binding:"omitempty,gt=0"`
	PartTypeIDs   []int64 `json:"partTypeIds"`
}

func (h *Handler) startSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "")
		return
	}

	view, err := h.searches.Search(c.Request.Context(), sessionID(c), domain.SearchData{
		Year:          req.Year,
		Make:          req.Make,
		Model:         req.Model,
		MakeID:        req.MakeID,
		ModelID:       req.ModelID,
		BaseVehicleID: req.BaseVehicleID,
		RegionID:      req.RegionID,
		PartTypeIDs:   req.PartTypeIDs,
	})
	if err != nil {
		respondError(c, err, "Failed to search parts")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"results": view})
}

func (h *Handler) searchResults(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		respondError(c, err, "")
		return
	}

	view, err := h.searches.Results(sessionID(c), page)
	if err != nil {
		respondError(c, err, "Failed to load results")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"results": view})
}

func (h *Handler) setFilters(c *gin.Context) {
	var f search.Filter
	if err := c.ShouldBindJSON(&f); err != nil {
		respondError(c, bindError(err), "")
		return
	}

	view, err := h.searches.SetFilter(sessionID(c), f)
	if err != nil {
		respondError(c, err, "Failed to apply filters")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"results": view})
}

func (h *Handler) filterTree(c *gin.Context) {
	tree, err := h.searches.FilterTree(c.Request.Context(), domain.ShopFrom(c.Request.Context()), sessionID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"tree": tree})
}

func (h *Handler) searchSession(c *gin.Context) {
	data, err := h.searches.Session(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err, "Failed to load search session")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"search": data})
}

func (h *Handler) clearSearch(c *gin.Context) {
	if err := h.searches.Clear(c.Request.Context(), sessionID(c)); err != nil {
		respondError(c, err, "Failed to clear search")
		return
	}
	respondOK(c, http.StatusOK, nil)
}
