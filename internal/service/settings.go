package service

import (
	"context"
	"fmt"
	"strings"

	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/repository"
)

// SettingsService stores per-shop settings. It is the fitment client's key source:
// a shop's stored key takes precedence over the configured one.
type SettingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// FitmentKey returns the key stored for the shop carried by ctx, or "" when there is none
func (s *SettingsService) FitmentKey(ctx context.Context) (string, error) {
	key, err := s.repo.GetFitmentKey(ctx, domain.ShopFrom(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to load fitment key: %w", err)
	}
	return key, nil
}

// HasFitmentKey reports whether shop has stored a key, without exposing it
func (s *SettingsService) HasFitmentKey(ctx context.Context, shop string) (bool, error) {
	key, err := s.repo.GetFitmentKey(ctx, strings.TrimSpace(shop))
	if err != nil {
		return false, fmt.Errorf("failed to load fitment key: %w", err)
	}
	return key != "", nil
}

func (s *SettingsService) SaveFitmentKey(ctx context.Context, shop, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.NewValidationError("settings.save", "apiKey is required", nil)
	}

	if err := s.repo.SaveFitmentKey(ctx, strings.TrimSpace(shop), key); err != nil {
		return fmt.Errorf("failed to save fitment key: %w", err)
	}
	return nil
}
