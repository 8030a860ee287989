package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ymm/catalog/internal/domain"
)

type PartTypeRepository interface {
	ListBySubcategory(ctx context.Context, subcategoryID int64) ([]domain.PartType, error)
	Create(ctx context.Context, in domain.PartTypeInput) (*domain.PartType, error)
	// Update leaves unset fields unchanged
	Update(ctx context.Context, id int64, in domain.PartTypeUpdate) (*domain.PartType, error)
	Delete(ctx context.Context, id int64) error
}

type partTypeRepository struct {
	db DBTX
}

func NewPartTypeRepository(db DBTX) PartTypeRepository {
	return &partTypeRepository{
		db: db,
	}
}

func (r *partTypeRepository) ListBySubcategory(ctx context.Context, subcategoryID int64) ([]domain.PartType, error) {
	query := `
	SELECT id, subcategory_id, name, description, terminology_id, sort_order, created_at, updated_at
	FROM part_types
	WHERE subcategory_id = $1
	ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, subcategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list part types of subcategory %d: %w", subcategoryID, err)
	}
	defer rows.Close()

	types := make([]domain.PartType, 0)
	for rows.Next() {
		pt, err := scanPartType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, *pt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate part types: %w", err)
	}

	return types, nil
}

func (r *partTypeRepository) Create(ctx context.Context, in domain.PartTypeInput) (*domain.PartType, error) {
	query := `
	INSERT INTO part_types (subcategory_id, name, description, terminology_id, sort_order)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at, updated_at`

	pt := domain.PartType{
		SubcategoryID: in.SubcategoryID,
		Name:          in.Name,
		Description:   in.Description,
		TerminologyID: in.TerminologyID,
		Order:         in.Order,
	}

	err := r.db.QueryRowContext(ctx, query, in.SubcategoryID, in.Name, in.Description, nullableInt64(in.TerminologyID), in.Order).
		Scan(&pt.ID, &pt.CreatedAt, &pt.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, domain.NewDuplicateError("parttype.create", "Part type")
		case isForeignKeyViolation(err):
			return nil, domain.NewNotFoundError("parttype.create", "Subcategory", in.SubcategoryID)
		}
		return nil, fmt.Errorf("failed to create part type: %w", err)
	}

	return &pt, nil
}

func (r *partTypeRepository) Update(ctx context.Context, id int64, in domain.PartTypeUpdate) (*domain.PartType, error) {
	query := `
	UPDATE part_types
	SET name = COALESCE($1, name),
	    description = COALESCE($2, description),
	    terminology_id = COALESCE($3, terminology_id),
	    sort_order = COALESCE($4, sort_order),
	    updated_at = now()
	WHERE id = $5
	RETURNING id, subcategory_id, name, description, terminology_id, sort_order, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		nullableString(in.Name), nullableString(in.Description), nullableInt64(in.TerminologyID), nullableInt(in.Order), id)
	pt, err := scanPartType(row)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.NewNotFoundError("parttype.update", "Part type", id)
		case isUniqueViolation(err):
			return nil, domain.NewDuplicateError("parttype.update", "Part type")
		}
		return nil, fmt.Errorf("failed to update part type %d: %w", id, err)
	}

	return pt, nil
}

func (r *partTypeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM part_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete part type %d: %w", id, err)
	}

	return ensureAffected(res, "parttype.delete", "Part type", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPartType(row rowScanner) (*domain.PartType, error) {
	var (
		pt   domain.PartType
		term sql.NullInt64
	)

	err := row.Scan(&pt.ID, &pt.SubcategoryID, &pt.Name, &pt.Description, &term, &pt.Order, &pt.CreatedAt, &pt.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan part type: %w", err)
	}

	pt.TerminologyID = int64Ptr(term)
	return &pt, nil
}
