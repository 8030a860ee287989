package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ymm/catalog/internal/client"
)

type cartAddRequest struct {
	VariantID int64 `json:"variantId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"omitempty,gt=0,lte=100"`
}

func (h *Handler) addToCart(c *gin.Context) {
	var req cartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "")
		return
	}

	result, err := h.cart.Add(c.Request.Context(), sessionID(c), client.CartLine{
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	}, c.GetHeader("Cookie"))
	if err != nil {
		respondError(c, err, "Failed to add to cart")
		return
	}

	for _, cookie := range result.Cookies {
		http.SetCookie(c.Writer, cookie)
	}
	respondOK(c, http.StatusOK, gin.H{"itemCount": result.ItemCount})
}

func (h *Handler) cartSection(c *gin.Context) {
	html, err := h.cart.Section(c.Request.Context(), c.Param("section"), c.GetHeader("Cookie"))
	if err != nil {
		respondError(c, err, "Failed to render cart section")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"section": c.Param("section"), "html": html})
}
