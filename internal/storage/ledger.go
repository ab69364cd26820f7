package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"wallet/internal/core"
)

// insertTransaction writes one ledger row inside an open transaction and
// returns it with its id filled in.
func insertTransaction(ctx context.Context, tx *sql.Tx, txn core.Transaction) (core.Transaction, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (owner_id, amount, date, description, category_id, transaction_type, currency_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.OwnerID, txn.Amount, txn.Date.String(), txn.Description,
		categoryParam(txn.CategoryID), string(txn.Type), txn.CurrencyID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	txn.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return txn, nil
}

// CreateIncomeWithTransaction writes the income and its mirror ledger entry
// in one database transaction.
func (r *SQLiteRepository) CreateIncomeWithTransaction(ctx context.Context, in core.Income, txn core.Transaction) (core.Income, core.Transaction, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		txn, err = insertTransaction(ctx, tx, txn)
		if err != nil {
			return err
		}
		in.TransactionID = txn.ID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO incomes (owner_id, amount, date, description, category_id, transaction_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			in.OwnerID, in.Amount, in.Date.String(), in.Description,
			categoryParam(in.CategoryID), in.TransactionID)
		if err != nil {
			return fmt.Errorf("insert income: %w", err)
		}
		in.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert income: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Income{}, core.Transaction{}, err
	}
	slog.InfoContext(ctx, "Income recorded", "id", in.ID, "transaction_id", txn.ID, "amount", in.Amount.String())
	return in, txn, nil
}

// CreateExpenseWithTransaction is the expense counterpart of
// CreateIncomeWithTransaction.
func (r *SQLiteRepository) CreateExpenseWithTransaction(ctx context.Context, e core.Expense, txn core.Transaction) (core.Expense, core.Transaction, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		txn, err = insertTransaction(ctx, tx, txn)
		if err != nil {
			return err
		}
		e.TransactionID = txn.ID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (owner_id, amount, date, description, category_id, transaction_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			e.OwnerID, e.Amount, e.Date.String(), e.Description,
			categoryParam(e.CategoryID), e.TransactionID)
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		e.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Expense{}, core.Transaction{}, err
	}
	slog.InfoContext(ctx, "Expense recorded", "id", e.ID, "transaction_id", txn.ID, "amount", e.Amount.String())
	return e, txn, nil
}

// UpdateIncomeWithTransaction overwrites the income's mutable fields and
// the same fields on its linked transaction, atomically.
func (r *SQLiteRepository) UpdateIncomeWithTransaction(ctx context.Context, in core.Income) (core.Income, core.Transaction, error) {
	var txn core.Transaction
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE incomes SET amount = ?, date = ?, description = ?, category_id = ?
			 WHERE id = ? AND owner_id = ?`,
			in.Amount, in.Date.String(), in.Description, categoryParam(in.CategoryID),
			in.ID, in.OwnerID)
		if err != nil {
			return fmt.Errorf("update income: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT transaction_id FROM incomes WHERE id = ?`, in.ID).Scan(&in.TransactionID); err != nil {
			return fmt.Errorf("read income link: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE transactions SET amount = ?, date = ?, description = ?, category_id = ?
			 WHERE id = ?`,
			in.Amount, in.Date.String(), in.Description, categoryParam(in.CategoryID),
			in.TransactionID)
		if err != nil {
			return fmt.Errorf("update linked transaction: %w", err)
		}

		txn, err = scanTransactionRow(tx.QueryRowContext(ctx,
			`SELECT id, owner_id, amount, date, description, category_id, transaction_type, currency_id
			 FROM transactions WHERE id = ?`, in.TransactionID))
		return err
	})
	if err != nil {
		return core.Income{}, core.Transaction{}, err
	}
	return in, txn, nil
}

// UpdateExpenseWithTransaction mirrors UpdateIncomeWithTransaction for
// expenses.
func (r *SQLiteRepository) UpdateExpenseWithTransaction(ctx context.Context, e core.Expense) (core.Expense, core.Transaction, error) {
	var txn core.Transaction
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE expenses SET amount = ?, date = ?, description = ?, category_id = ?
			 WHERE id = ? AND owner_id = ?`,
			e.Amount, e.Date.String(), e.Description, categoryParam(e.CategoryID),
			e.ID, e.OwnerID)
		if err != nil {
			return fmt.Errorf("update expense: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT transaction_id FROM expenses WHERE id = ?`, e.ID).Scan(&e.TransactionID); err != nil {
			return fmt.Errorf("read expense link: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE transactions SET amount = ?, date = ?, description = ?, category_id = ?
			 WHERE id = ?`,
			e.Amount, e.Date.String(), e.Description, categoryParam(e.CategoryID),
			e.TransactionID)
		if err != nil {
			return fmt.Errorf("update linked transaction: %w", err)
		}

		txn, err = scanTransactionRow(tx.QueryRowContext(ctx,
			`SELECT id, owner_id, amount, date, description, category_id, transaction_type, currency_id
			 FROM transactions WHERE id = ?`, e.TransactionID))
		return err
	})
	if err != nil {
		return core.Expense{}, core.Transaction{}, err
	}
	return e, txn, nil
}

// DeleteIncome removes the income and its owned transaction together.
func (r *SQLiteRepository) DeleteIncome(ctx context.Context, ownerID, id int64) error {
	return r.deleteMirror(ctx, "incomes", ownerID, id)
}

// DeleteExpense removes the expense and its owned transaction together.
// Ownership is uniform: both mirror kinds cascade the same way.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	return r.deleteMirror(ctx, "expenses", ownerID, id)
}

func (r *SQLiteRepository) deleteMirror(ctx context.Context, table string, ownerID, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var transactionID int64
		err := tx.QueryRowContext(ctx,
			`SELECT transaction_id FROM `+table+` WHERE id = ? AND owner_id = ?`,
			id, ownerID).Scan(&transactionID)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read %s link: %w", table, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, transactionID); err != nil {
			return fmt.Errorf("delete owned transaction: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) GetIncomeForOwner(ctx context.Context, ownerID, id int64) (core.Income, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, amount, date, description, category_id, transaction_id
		 FROM incomes WHERE id = ? AND owner_id = ?`, id, ownerID)
	return scanIncome(row)
}

func (r *SQLiteRepository) GetExpenseForOwner(ctx context.Context, ownerID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, amount, date, description, category_id, transaction_id
		 FROM expenses WHERE id = ? AND owner_id = ?`, id, ownerID)
	e, err := scanIncome(row)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense(e), nil
}

// ListIncomes returns the owner's incomes inside the range, newest first.
func (r *SQLiteRepository) ListIncomes(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Income, error) {
	query, args := rangeQuery(
		`SELECT id, owner_id, amount, date, description, category_id, transaction_id FROM incomes`,
		ownerID, rng)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

// ListExpenses returns the owner's expenses inside the range, newest first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Expense, error) {
	query, args := rangeQuery(
		`SELECT id, owner_id, amount, date, description, category_id, transaction_id FROM expenses`,
		ownerID, rng)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, core.Expense(in))
	}
	return expenses, rows.Err()
}

// ListTransactions returns the owner's ledger inside the range, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Transaction, error) {
	query, args := rangeQuery(
		`SELECT id, owner_id, amount, date, description, category_id, transaction_type, currency_id FROM transactions`,
		ownerID, rng)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func rangeQuery(selectClause string, ownerID int64, rng core.DateRange) (string, []any) {
	query := selectClause + ` WHERE owner_id = ?`
	args := []any{ownerID}
	if !rng.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, rng.From.String())
	}
	if !rng.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, rng.To.String())
	}
	query += ` ORDER BY date DESC, id DESC`
	return query, args
}

func scanIncome(row rowScanner) (core.Income, error) {
	var in core.Income
	var date string
	var category sql.NullInt64
	err := row.Scan(&in.ID, &in.OwnerID, &in.Amount, &date, &in.Description, &category, &in.TransactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, core.ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("scan income: %w", err)
	}
	in.CategoryID = categoryValue(category)
	in.Date, err = scanDate(date)
	return in, err
}

func scanTransactionRow(row rowScanner) (core.Transaction, error) {
	var txn core.Transaction
	var date, txnType string
	var category sql.NullInt64
	err := row.Scan(&txn.ID, &txn.OwnerID, &txn.Amount, &date, &txn.Description, &category, &txnType, &txn.CurrencyID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	txn.CategoryID = categoryValue(category)
	txn.Type = core.TransactionType(txnType)
	txn.Date, err = scanDate(date)
	return txn, err
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}
