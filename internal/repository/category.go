package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ymm/catalog/internal/domain"
)

type CategoryRepository interface {
	// ListTree returns the whole hierarchy ordered by name at every level. An empty shop lists all shops.
	ListTree(ctx context.Context, shop string) (domain.CategoryTree, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	// Update leaves unset fields unchanged
	Update(ctx context.Context, id int64, in domain.CategoryUpdate) (*domain.Category, error)
	// Delete removes the category together with its subcategories and part types
	Delete(ctx context.Context, id int64) error
}

type categoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

func (r *categoryRepository) ListTree(ctx context.Context, shop string) (domain.CategoryTree, error) {
	query := `
	SELECT c.id, c.shop, c.name, c.description, c.sort_order, c.created_at, c.updated_at,
	       s.id, s.name, s.description, s.sort_order, s.created_at, s.updated_at,
	       p.id, p.name, p.description, p.terminology_id, p.sort_order, p.created_at, p.updated_at
	FROM categories c
	LEFT JOIN subcategories s ON s.category_id = c.id
	LEFT JOIN part_types p ON p.subcategory_id = s.id
	WHERE ($1 = '' OR c.shop = $1)
	ORDER BY c.name, c.id, s.name, s.id, p.name, p.id`

	rows, err := r.db.QueryContext(ctx, query, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	tree := make(domain.CategoryTree, 0)
	for rows.Next() {
		var (
			c domain.Category

			subID, subOrder        sql.NullInt64
			subName, subDesc       sql.NullString
			subCreated, subUpdated sql.NullTime
			ptID, ptTerm, ptOrder  sql.NullInt64
			ptName, ptDesc         sql.NullString
			ptCreated, ptUpdated   sql.NullTime
		)

		err := rows.Scan(
			&c.ID, &c.Shop, &c.Name, &c.Description, &c.Order, &c.CreatedAt, &c.UpdatedAt,
			&subID, &subName, &subDesc, &subOrder, &subCreated, &subUpdated,
			&ptID, &ptName, &ptDesc, &ptTerm, &ptOrder, &ptCreated, &ptUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}

		// rows arrive grouped by category then subcategory
		if len(tree) == 0 || tree[len(tree)-1].ID != c.ID {
			c.Subcategories = make([]domain.Subcategory, 0)
			tree = append(tree, c)
		}
		category := &tree[len(tree)-1]

		if !subID.Valid {
			continue
		}

		subs := category.Subcategories
		if len(subs) == 0 || subs[len(subs)-1].ID != subID.Int64 {
			category.Subcategories = append(category.Subcategories, domain.Subcategory{
				ID:          subID.Int64,
				CategoryID:  c.ID,
				Name:        subName.String,
				Description: subDesc.String,
				Order:       int(subOrder.Int64),
				PartTypes:   make([]domain.PartType, 0),
				CreatedAt:   subCreated.Time,
				UpdatedAt:   subUpdated.Time,
			})
		}
		sub := &category.Subcategories[len(category.Subcategories)-1]

		if !ptID.Valid {
			continue
		}

		sub.PartTypes = append(sub.PartTypes, domain.PartType{
			ID:            ptID.Int64,
			SubcategoryID: sub.ID,
			Name:          ptName.String,
			Description:   ptDesc.String,
			TerminologyID: int64Ptr(ptTerm),
			Order:         int(ptOrder.Int64),
			CreatedAt:     ptCreated.Time,
			UpdatedAt:     ptUpdated.Time,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return tree, nil
}

func (r *categoryRepository) Get(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
	SELECT id, shop, name, description, sort_order, created_at, updated_at
	FROM categories
	WHERE id = $1`

	var c domain.Category
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Shop, &c.Name, &c.Description, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("category.get", "Category", id)
		}
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}

	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	query := `
	INSERT INTO categories (shop, name, description, sort_order)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at, updated_at`

	c := domain.Category{
		Shop:          in.Shop,
		Name:          in.Name,
		Description:   in.Description,
		Order:         in.Order,
		Subcategories: make([]domain.Subcategory, 0),
	}

	err := r.db.QueryRowContext(ctx, query, in.Shop, in.Name, in.Description, in.Order).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewDuplicateError("category.create", "Category")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &c, nil
}

func (r *categoryRepository) Update(ctx context.Context, id int64, in domain.CategoryUpdate) (*domain.Category, error) {
	query := `
	UPDATE categories
	SET name = COALESCE($1, name),
	    description = COALESCE($2, description),
	    sort_order = COALESCE($3, sort_order),
	    updated_at = now()
	WHERE id = $4
	RETURNING id, shop, name, description, sort_order, created_at, updated_at`

	var c domain.Category
	err := r.db.QueryRowContext(ctx, query, nullableString(in.Name), nullableString(in.Description), nullableInt(in.Order), id).
		Scan(&c.ID, &c.Shop, &c.Name, &c.Description, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.NewNotFoundError("category.update", "Category", id)
		case isUniqueViolation(err):
			return nil, domain.NewDuplicateError("category.update", "Category")
		}
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}

	return &c, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}

	return ensureAffected(res, "category.delete", "Category", id)
}
