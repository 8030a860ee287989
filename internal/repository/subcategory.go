package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ymm/catalog/internal/domain"
)

type SubcategoryRepository interface {
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Subcategory, error)
	Create(ctx context.Context, in domain.SubcategoryInput) (*domain.Subcategory, error)
	// Update leaves unset fields unchanged
	Update(ctx context.Context, id int64, in domain.SubcategoryUpdate) (*domain.Subcategory, error)
	// Delete removes the subcategory and its part types
	Delete(ctx context.Context, id int64) error
}

type subcategoryRepository struct {
	db DBTX
}

func NewSubcategoryRepository(db DBTX) SubcategoryRepository {
	return &subcategoryRepository{
		db: db,
	}
}

func (r *subcategoryRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Subcategory, error) {
	query := `
	SELECT id, category_id, name, description, sort_order, created_at, updated_at
	FROM subcategories
	WHERE category_id = $1
	ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories of category %d: %w", categoryID, err)
	}
	defer rows.Close()

	subs := make([]domain.Subcategory, 0)
	for rows.Next() {
		s := domain.Subcategory{PartTypes: make([]domain.PartType, 0)}
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.Order, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subs = append(subs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subcategories: %w", err)
	}

	return subs, nil
}

func (r *subcategoryRepository) Create(ctx context.Context, in domain.SubcategoryInput) (*domain.Subcategory, error) {
	query := `
	INSERT INTO subcategories (category_id, name, description, sort_order)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at, updated_at`

	s := domain.Subcategory{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Order:       in.Order,
		PartTypes:   make([]domain.PartType, 0),
	}

	err := r.db.QueryRowContext(ctx, query, in.CategoryID, in.Name, in.Description, in.Order).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, domain.NewDuplicateError("subcategory.create", "Subcategory")
		case isForeignKeyViolation(err):
			return nil, domain.NewNotFoundError("subcategory.create", "Category", in.CategoryID)
		}
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}

	return &s, nil
}

func (r *subcategoryRepository) Update(ctx context.Context, id int64, in domain.SubcategoryUpdate) (*domain.Subcategory, error) {
	query := `
	UPDATE subcategories
	SET name = COALESCE($1, name),
	    description = COALESCE($2, description),
	    sort_order = COALESCE($3, sort_order),
	    updated_at = now()
	WHERE id = $4
	RETURNING id, category_id, name, description, sort_order, created_at, updated_at`

	s := domain.Subcategory{PartTypes: make([]domain.PartType, 0)}
	err := r.db.QueryRowContext(ctx, query, nullableString(in.Name), nullableString(in.Description), nullableInt(in.Order), id).
		Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.Order, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.NewNotFoundError("subcategory.update", "Subcategory", id)
		case isUniqueViolation(err):
			return nil, domain.NewDuplicateError("subcategory.update", "Subcategory")
		}
		return nil, fmt.Errorf("failed to update subcategory %d: %w", id, err)
	}

	return &s, nil
}

func (r *subcategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subcategory %d: %w", id, err)
	}

	return ensureAffected(res, "subcategory.delete", "Subcategory", id)
}
