package rates

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Store is the slice of the currency registry the updater writes to.
type Store interface {
	UpsertCurrencyByCode(ctx context.Context, code, name string, rate decimal.Decimal) error
}

// Fetcher abstracts the feed so the updater can be tested without the
// real API.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Rate, error)
}

// Updater refreshes the currency registry from the feed. A failed fetch
// leaves every stored rate untouched; currencies missing from a given
// table are never deleted.
type Updater struct {
	fetcher Fetcher
	store   Store
}

func NewUpdater(fetcher Fetcher, store Store) *Updater {
	return &Updater{fetcher: fetcher, store: store}
}

func (u *Updater) Refresh(ctx context.Context) error {
	rates, err := u.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh rates: %w", err)
	}

	for _, r := range rates {
		if err := u.store.UpsertCurrencyByCode(ctx, r.Code, r.Name, r.Mid); err != nil {
			return fmt.Errorf("store rate %s: %w", r.Code, err)
		}
	}

	slog.InfoContext(ctx, "Exchange rates refreshed", "count", len(rates))
	return nil
}
