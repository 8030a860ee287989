package httpapi

import (
	"context"

	"ymm/catalog/internal/client"
	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/search"
)

type Taxonomy interface {
	Tree(ctx context.Context, shop string) (domain.CategoryTree, error)
	Category(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.CategoryUpdate) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	Subcategories(ctx context.Context, categoryID int64) ([]domain.Subcategory, error)
	CreateSubcategory(ctx context.Context, in domain.SubcategoryInput) (*domain.Subcategory, error)
	UpdateSubcategory(ctx context.Context, id int64, in domain.SubcategoryUpdate) (*domain.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id int64) error
	PartTypes(ctx context.Context, subcategoryID int64) ([]domain.PartType, error)
	CreatePartType(ctx context.Context, in domain.PartTypeInput) (*domain.PartType, error)
	UpdatePartType(ctx context.Context, id int64, in domain.PartTypeUpdate) (*domain.PartType, error)
	DeletePartType(ctx context.Context, id int64) error
}

type Settings interface {
	HasFitmentKey(ctx context.Context, shop string) (bool, error)
	SaveFitmentKey(ctx context.Context, shop, key string) error
}

type Vehicles interface {
	Options(ctx context.Context, stage domain.VehicleStage, sel domain.VehicleSelection) ([]domain.FacetOption, error)
	Resolve(ctx context.Context, year, makeID, modelID int) (*domain.BaseVehicle, error)
}

type Searches interface {
	Search(ctx context.Context, sessionID string, data domain.SearchData) (search.PageView, error)
	Results(sessionID string, page int) (search.PageView, error)
	SetFilter(sessionID string, f search.Filter) (search.PageView, error)
	FilterTree(ctx context.Context, shop, sessionID string) (search.FilterTree, error)
	Session(ctx context.Context, sessionID string) (*domain.SearchData, error)
	Clear(ctx context.Context, sessionID string) error
}

type Cart interface {
	Add(ctx context.Context, sessionID string, line client.CartLine, cookie string) (*client.CartResult, error)
	Section(ctx context.Context, section, cookie string) (string, error)
}

type EventStats interface {
	Stats(ctx context.Context) (map[string]int64, error)
}

// Handler serves the admin, public and storefront routes
type Handler struct {
	taxonomy Taxonomy
	settings Settings
	vehicles Vehicles
	searches Searches
	cart     Cart
	stats    EventStats
}

func NewHandler(taxonomy Taxonomy, settings Settings, vehicles Vehicles, searches Searches, cart Cart, stats EventStats) *Handler {
	return &Handler{
		taxonomy: taxonomy,
		settings: settings,
		vehicles: vehicles,
		searches: searches,
		cart:     cart,
		stats:    stats,
	}
}
