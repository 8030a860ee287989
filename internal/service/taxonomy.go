package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/repository"
)

// TaxonomyService manages the Category -> Subcategory -> PartType hierarchy
type TaxonomyService struct {
	categories    repository.CategoryRepository
	subcategories repository.SubcategoryRepository
	partTypes     repository.PartTypeRepository
}

func NewTaxonomyService(
	categories repository.CategoryRepository,
	subcategories repository.SubcategoryRepository,
	partTypes repository.PartTypeRepository,
) *TaxonomyService {
	return &TaxonomyService{
		categories:    categories,
		subcategories: subcategories,
		partTypes:     partTypes,
	}
}

// Tree returns the hierarchy of shop, or of every shop when shop is empty
func (s *TaxonomyService) Tree(ctx context.Context, shop string) (domain.CategoryTree, error) {
	tree, err := s.categories.ListTree(ctx, strings.TrimSpace(shop))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return tree, nil
}

func (s *TaxonomyService) Category(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.Get(ctx, id)
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	name, err := requireName("category.create", in.Name)
	if err != nil {
		return nil, err
	}
	in.Name = name
	in.Shop = strings.TrimSpace(in.Shop)

	category, err := s.categories.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	log.Infof("📁 Created category %d %q", category.ID, category.Name)
	return category, nil
}

// UpdateCategory changes the fields set in in and keeps the rest
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id int64, in domain.CategoryUpdate) (*domain.Category, error) {
	name, err := optionalName("category.update", in.Name)
	if err != nil {
		return nil, err
	}
	in.Name = name

	return s.categories.Update(ctx, id, in)
}

// DeleteCategory removes the category with all of its subcategories and part types
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	log.Infof("🗑️ Deleted category %d", id)
	return nil
}

func (s *TaxonomyService) Subcategories(ctx context.Context, categoryID int64) ([]domain.Subcategory, error) {
	if categoryID <= 0 {
		return nil, domain.NewValidationError("subcategory.list", "categoryId is required", nil)
	}
	return s.subcategories.ListByCategory(ctx, categoryID)
}

func (s *TaxonomyService) CreateSubcategory(ctx context.Context, in domain.SubcategoryInput) (*domain.Subcategory, error) {
	const op = "subcategory.create"

	name, err := requireName(op, in.Name)
	if err != nil {
		return nil, err
	}
	if in.CategoryID <= 0 {
		return nil, domain.NewValidationError(op, "categoryId is required", nil)
	}
	in.Name = name

	sub, err := s.subcategories.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	log.Infof("📂 Created subcategory %d %q in category %d", sub.ID, sub.Name, sub.CategoryID)
	return sub, nil
}

func (s *TaxonomyService) UpdateSubcategory(ctx context.Context, id int64, in domain.SubcategoryUpdate) (*domain.Subcategory, error) {
	name, err := optionalName("subcategory.update", in.Name)
	if err != nil {
		return nil, err
	}
	in.Name = name

	return s.subcategories.Update(ctx, id, in)
}

// DeleteSubcategory removes the subcategory and its part types
func (s *TaxonomyService) DeleteSubcategory(ctx context.Context, id int64) error {
	return s.subcategories.Delete(ctx, id)
}

func (s *TaxonomyService) PartTypes(ctx context.Context, subcategoryID int64) ([]domain.PartType, error) {
	if subcategoryID <= 0 {
		return nil, domain.NewValidationError("parttype.list", "subCategoryId is required", nil)
	}
	return s.partTypes.ListBySubcategory(ctx, subcategoryID)
}

func (s *TaxonomyService) CreatePartType(ctx context.Context, in domain.PartTypeInput) (*domain.PartType, error) {
	const op = "parttype.create"

	if err := validatePartType(op, &in); err != nil {
		return nil, err
	}

	pt, err := s.partTypes.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	log.Infof("🔩 Created part type %d %q in subcategory %d", pt.ID, pt.Name, pt.SubcategoryID)
	return pt, nil
}

func (s *TaxonomyService) UpdatePartType(ctx context.Context, id int64, in domain.PartTypeUpdate) (*domain.PartType, error) {
	const op = "parttype.update"

	name, err := optionalName(op, in.Name)
	if err != nil {
		return nil, err
	}
	if in.TerminologyID != nil && *in.TerminologyID <= 0 {
		return nil, domain.NewValidationError(op, "terminologyId must be positive", nil)
	}
	in.Name = name

	return s.partTypes.Update(ctx, id, in)
}

func (s *TaxonomyService) DeletePartType(ctx context.Context, id int64) error {
	return s.partTypes.Delete(ctx, id)
}

func validatePartType(op string, in *domain.PartTypeInput) error {
	name, err := requireName(op, in.Name)
	if err != nil {
		return err
	}
	if in.SubcategoryID <= 0 {
		return domain.NewValidationError(op, "subCategoryId is required", nil)
	}
	if in.TerminologyID != nil && *in.TerminologyID <= 0 {
		return domain.NewValidationError(op, "terminologyId must be positive", nil)
	}
	in.Name = name
	return nil
}

func requireName(op, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError(op, "name is required", nil)
	}
	return name, nil
}

// optionalName trims a name that is being changed. A present but blank name is rejected.
func optionalName(op string, name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	trimmed, err := requireName(op, *name)
	if err != nil {
		return nil, err
	}
	return &trimmed, nil
}
