package service

import (
	"context"

	"ymm/catalog/internal/client"
	"ymm/catalog/internal/domain"
)

type fakeCategories struct {
	created []domain.CategoryInput
	updated []domain.CategoryUpdate
	tree    domain.CategoryTree
	err     error
}

func (f *fakeCategories) ListTree(context.Context, string) (domain.CategoryTree, error) {
	return f.tree, f.err
}

func (f *fakeCategories) Get(_ context.Context, id int64) (*domain.Category, error) {
	return nil, domain.NewNotFoundError("category.get", "Category", id)
}

func (f *fakeCategories) Create(_ context.Context, in domain.CategoryInput) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &domain.Category{ID: int64(len(f.created)), Name: in.Name, Shop: in.Shop}, nil
}

func (f *fakeCategories) Update(_ context.Context, id int64, in domain.CategoryUpdate) (*domain.Category, error) {
	f.updated = append(f.updated, in)
	return &domain.Category{ID: id}, f.err
}

func (f *fakeCategories) Delete(context.Context, int64) error {
	return f.err
}

type fakeSubcategories struct {
	created []domain.SubcategoryInput
	updated []domain.SubcategoryUpdate
}

func (f *fakeSubcategories) ListByCategory(context.Context, int64) ([]domain.Subcategory, error) {
	return nil, nil
}

func (f *fakeSubcategories) Create(_ context.Context, in domain.SubcategoryInput) (*domain.Subcategory, error) {
	for _, existing := range f.created {
		if existing.CategoryID == in.CategoryID && existing.Name == in.Name {
			return nil, domain.NewDuplicateError("subcategory.create", "Subcategory")
		}
	}
	f.created = append(f.created, in)
	return &domain.Subcategory{ID: int64(len(f.created)), CategoryID: in.CategoryID, Name: in.Name}, nil
}

func (f *fakeSubcategories) Update(_ context.Context, id int64, in domain.SubcategoryUpdate) (*domain.Subcategory, error) {
	f.updated = append(f.updated, in)
	return &domain.Subcategory{ID: id}, nil
}

func (f *fakeSubcategories) Delete(context.Context, int64) error {
	return nil
}

type fakePartTypes struct {
	created []domain.PartTypeInput
	updated []domain.PartTypeUpdate
}

func (f *fakePartTypes) ListBySubcategory(context.Context, int64) ([]domain.PartType, error) {
	return nil, nil
}

func (f *fakePartTypes) Create(_ context.Context, in domain.PartTypeInput) (*domain.PartType, error) {
	f.created = append(f.created, in)
	return &domain.PartType{ID: int64(len(f.created)), Name: in.Name, SubcategoryID: in.SubcategoryID, TerminologyID: in.TerminologyID}, nil
}

func (f *fakePartTypes) Update(_ context.Context, id int64, in domain.PartTypeUpdate) (*domain.PartType, error) {
	f.updated = append(f.updated, in)
	return &domain.PartType{ID: id}, nil
}

func (f *fakePartTypes) Delete(context.Context, int64) error {
	return nil
}

type fakeFacets struct {
	counts   []client.FacetCount
	vehicle  *domain.BaseVehicle
	err      error
	requests []domain.VehicleStage
}

func (f *fakeFacets) Facets(_ context.Context, stage domain.VehicleStage, _ domain.VehicleSelection) ([]client.FacetCount, error) {
	f.requests = append(f.requests, stage)
	return f.counts, f.err
}

func (f *fakeFacets) ResolveBaseVehicle(context.Context, int, int, int) (*domain.BaseVehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vehicle, nil
}

type fakeStorefront struct {
	products []domain.StoreProduct
	added    []client.CartLine
	err      error
}

func (f *fakeStorefront) ListProducts(context.Context) ([]domain.StoreProduct, error) {
	return f.products, f.err
}

func (f *fakeStorefront) AddToCart(_ context.Context, line client.CartLine, _ string) (*client.CartResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.added = append(f.added, line)
	return &client.CartResult{ItemCount: len(f.added)}, nil
}

func (f *fakeStorefront) CartSection(context.Context, string, string) (string, error) {
	return "<div>cart</div>", f.err
}

type fakeSettings struct {
	keys map[string]string
}

func (f *fakeSettings) GetFitmentKey(_ context.Context, shop string) (string, error) {
	return f.keys[shop], nil
}

func (f *fakeSettings) SaveFitmentKey(_ context.Context, shop, key string) error {
	f.keys[shop] = key
	return nil
}
