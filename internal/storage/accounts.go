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

func (r *SQLiteRepository) CreateAccount(ctx context.Context, acc core.Account) (core.Account, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (owner_id, name, currency_id, balance) VALUES (?, ?, ?, ?)`,
		acc.OwnerID, acc.Name, acc.CurrencyID, acc.Balance)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	acc.ID, err = res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	return acc, nil
}

func (r *SQLiteRepository) GetAccountForOwner(ctx context.Context, ownerID, id int64) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, currency_id, balance FROM accounts
		 WHERE id = ? AND owner_id = ?`, id, ownerID)
	return scanAccount(row)
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, ownerID int64) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, currency_id, balance FROM accounts
		 WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// DeleteAccount removes the account row only; historical transactions are
// never rewritten.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireAffected(res)
}

// ApplyAccountMovement writes the new balance and the ledger entry for one
// deposit or withdrawal in a single database transaction.
func (r *SQLiteRepository) ApplyAccountMovement(ctx context.Context, account core.Account, newBalance decimal.Decimal, txn core.Transaction) (core.Transaction, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := updateBalance(ctx, tx, account, newBalance); err != nil {
			return err
		}
		var err error
		txn, err = insertTransaction(ctx, tx, txn)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}
	slog.InfoContext(ctx, "Account movement applied",
		"account_id", account.ID, "type", string(txn.Type),
		"amount", txn.Amount.String(), "balance", newBalance.String())
	return txn, nil
}

// ApplyExchange writes the whole exchange unit: new balance, the base
// currency income with its mirror ledger entry, and the foreign-currency
// exchange ledger entry. Any failure rolls back every step.
func (r *SQLiteRepository) ApplyExchange(ctx context.Context, account core.Account, newBalance decimal.Decimal, income core.Income, mirror, exchange core.Transaction) (core.Income, core.Transaction, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := updateBalance(ctx, tx, account, newBalance); err != nil {
			return err
		}

		var err error
		mirror, err = insertTransaction(ctx, tx, mirror)
		if err != nil {
			return err
		}
		income.TransactionID = mirror.ID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO incomes (owner_id, amount, date, description, category_id, transaction_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			income.OwnerID, income.Amount, income.Date.String(), income.Description,
			categoryParam(income.CategoryID), income.TransactionID)
		if err != nil {
			return fmt.Errorf("insert exchange income: %w", err)
		}
		income.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert exchange income: %w", err)
		}

		exchange, err = insertTransaction(ctx, tx, exchange)
		return err
	})
	if err != nil {
		return core.Income{}, core.Transaction{}, err
	}
	slog.InfoContext(ctx, "Exchange applied",
		"account_id", account.ID, "face_amount", exchange.Amount.String(),
		"converted_amount", income.Amount.String(), "balance", newBalance.String())
	return income, exchange, nil
}

func updateBalance(ctx context.Context, tx *sql.Tx, account core.Account, newBalance decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = ? WHERE id = ? AND owner_id = ?`,
		newBalance, account.ID, account.OwnerID)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return requireAffected(res)
}

func scanAccount(row rowScanner) (core.Account, error) {
	var acc core.Account
	err := row.Scan(&acc.ID, &acc.OwnerID, &acc.Name, &acc.CurrencyID, &acc.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	return acc, nil
}
