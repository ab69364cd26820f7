package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

func (r *SQLiteRepository) GetCurrency(ctx context.Context, id int64) (core.Currency, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, code, name, symbol, exchange_rate FROM currencies WHERE id = ?`, id)
	return scanCurrency(row)
}

func (r *SQLiteRepository) GetCurrencyByCode(ctx context.Context, code string) (core.Currency, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, code, name, symbol, exchange_rate FROM currencies WHERE code = ?`, code)
	return scanCurrency(row)
}

// ListCurrencies returns every registry entry ordered by code.
func (r *SQLiteRepository) ListCurrencies(ctx context.Context) ([]core.Currency, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, symbol, exchange_rate FROM currencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []core.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, err
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

// UpsertCurrencyByCode updates the name and rate of an existing currency or
// inserts a new row. The rate feed is the only caller; it never deletes.
func (r *SQLiteRepository) UpsertCurrencyByCode(ctx context.Context, code, name string, rate decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE currencies SET name = ?, exchange_rate = ? WHERE code = ?`, name, rate, code)
	if err != nil {
		return fmt.Errorf("update currency %s: %w", code, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update currency %s: %w", code, err)
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO currencies (code, name, symbol, exchange_rate) VALUES (?, ?, '', ?)`,
		code, name, rate)
	if err != nil {
		return fmt.Errorf("insert currency %s: %w", code, err)
	}
	slog.InfoContext(ctx, "Currency registered", "code", code, "rate", rate.String())
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCurrency(row rowScanner) (core.Currency, error) {
	var c core.Currency
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Symbol, &c.ExchangeRate)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Currency{}, core.ErrNotFound
	}
	if err != nil {
		return core.Currency{}, fmt.Errorf("scan currency: %w", err)
	}
	return c, nil
}
