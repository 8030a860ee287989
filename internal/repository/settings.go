package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SettingsRepository stores per-shop widget settings
type SettingsRepository interface {
	// GetFitmentKey returns "" when the shop has not stored a key
	GetFitmentKey(ctx context.Context, shop string) (string, error)
	SaveFitmentKey(ctx context.Context, shop, key string) error
}

type settingsRepository struct {
	db DBTX
}

func NewSettingsRepository(db DBTX) SettingsRepository {
	return &settingsRepository{
		db: db,
	}
}

func (r *settingsRepository) GetFitmentKey(ctx context.Context, shop string) (string, error) {
	var key string
	err := r.db.QueryRowContext(ctx, `SELECT fitment_api_key FROM shop_settings WHERE shop = $1`, shop).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get fitment key for shop %q: %w", shop, err)
	}

	return key, nil
}

func (r *settingsRepository) SaveFitmentKey(ctx context.Context, shop, key string) error {
	query := `
	INSERT INTO shop_settings (shop, fitment_api_key)
	VALUES ($1, $2)
	ON CONFLICT (shop)
	DO UPDATE SET fitment_api_key = $2, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, shop, key); err != nil {
		return fmt.Errorf("failed to save fitment key for shop %q: %w", shop, err)
	}

	return nil
}
