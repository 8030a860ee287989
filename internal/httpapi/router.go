package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ymm/catalog/internal/config"
	"ymm/catalog/internal/domain"
)

// NewRouter wires every route. Public widget routes get open CORS; storefront routes get a session.
func NewRouter(cfg config.ServerConfig, sessionTTL time.Duration, h *Handler) *gin.Engine {
	SetupValidator()

	r := gin.New()
	r.Use(RequestID(), AccessLog(), Recovery(), Shop())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.GET("/categories", h.listCategories)
	api.POST("/categories", h.createCategory)
	api.GET("/categories/:id", h.getCategory)
	api.PUT("/categories/:id", h.updateCategory)
	api.DELETE("/categories/:id", h.deleteCategory)

	api.GET("/subcategories", h.listSubcategories)
	api.POST("/subcategories", h.createSubcategory)
	api.PUT("/subcategories/:id", h.updateSubcategory)
	api.DELETE("/subcategories/:id", h.deleteSubcategory)

	api.GET("/parttypes", h.listPartTypes)
	api.POST("/parttypes", h.createPartType)
	api.PUT("/parttypes/:id", h.updatePartType)
	api.DELETE("/parttypes/:id", h.deletePartType)

	api.GET("/settings/fitment-key", h.getFitmentKey)
	api.POST("/settings/fitment-key", h.saveFitmentKey)
	api.GET("/events/stats", h.eventStats)

	public := PublicCORS(cfg.CORSOrigin)
	api.GET("/categories/public", public, h.publicCategories)
	api.OPTIONS("/categories/public", public)

	prefix := strings.TrimRight(cfg.AppProxyPrefix, "/")
	if prefix != "" {
		proxied := r.Group(prefix, public)
		proxied.GET("/api/categories/public", h.publicCategories)
		proxied.OPTIONS("/api/categories/public")
	}

	storefront := api.Group("", Session(sessionTTL))

	vehicle := storefront.Group("/vehicle")
	vehicle.GET("/regions", h.vehicleOptions(domain.StageRegion))
	vehicle.GET("/types", h.vehicleOptions(domain.StageVehicleType))
	vehicle.GET("/years", h.vehicleOptions(domain.StageYear))
	vehicle.GET("/makes", h.vehicleOptions(domain.StageMake))
	vehicle.GET("/models", h.vehicleOptions(domain.StageModel))
	vehicle.POST("/resolve", h.resolveVehicle)

	storefront.POST("/search", h.startSearch)
	storefront.DELETE("/search", h.clearSearch)
	storefront.GET("/search/results", h.searchResults)
	storefront.POST("/search/filters", h.setFilters)
	storefront.GET("/search/filters/tree", h.filterTree)
	storefront.GET("/search/session", h.searchSession)

	storefront.POST("/cart/add", h.addToCart)
	storefront.GET("/cart/sections/:section", h.cartSection)

	return r
}
