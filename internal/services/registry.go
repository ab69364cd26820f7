package services

import (
	"context"
	"strings"

	"wallet/internal/core"
)

// RegistryService serves the shared currency registry and per-owner
// categories.
type RegistryService struct {
	store interface {
		CurrencyStore
		CategoryStore
	}
}

func NewRegistryService(store interface {
	CurrencyStore
	CategoryStore
}) *RegistryService {
	return &RegistryService{store: store}
}

func (s *RegistryService) ListCurrencies(ctx context.Context) ([]core.Currency, error) {
	return s.store.ListCurrencies(ctx)
}

func (s *RegistryService) GetCurrency(ctx context.Context, id int64) (core.Currency, error) {
	return s.store.GetCurrency(ctx, id)
}

func (s *RegistryService) CreateCategory(ctx context.Context, ownerID int64, name, description string) (core.Category, error) {
	if strings.TrimSpace(name) == "" {
		return core.Category{}, core.ErrEmptyName
	}
	return s.store.CreateCategory(ctx, core.Category{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
	})
}

func (s *RegistryService) ListCategories(ctx context.Context, ownerID int64) ([]core.Category, error) {
	return s.store.ListCategories(ctx, ownerID)
}

func (s *RegistryService) DeleteCategory(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteCategory(ctx, ownerID, id)
}
