package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ymm/catalog/internal/domain"
)

type fitmentKeyRequest struct {
	Shop   string `json:"shop"`
	APIKey string `json:"apiKey" binding:"required,notblank"`
}

// getFitmentKey reports whether the shop has a key; the key itself is never returned
func (h *Handler) getFitmentKey(c *gin.Context) {
	configured, err := h.settings.HasFitmentKey(c.Request.Context(), domain.ShopFrom(c.Request.Context()))
	if err != nil {
		respondError(c, err, "Failed to load settings")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"configured": configured})
}

func (h *Handler) saveFitmentKey(c *gin.Context) {
	var req fitmentKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "")
		return
	}
	if req.Shop == "" {
		req.Shop = domain.ShopFrom(c.Request.Context())
	}

	if err := h.settings.SaveFitmentKey(c.Request.Context(), req.Shop, req.APIKey); err != nil {
		respondError(c, err, "Failed to save settings")
		return
	}
	respondOK(c, http.StatusOK, nil)
}

func (h *Handler) eventStats(c *gin.Context) {
	counts, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load event stats")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"events": counts})
}
