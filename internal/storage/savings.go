package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"wallet/internal/core"
)

func (r *SQLiteRepository) CreateSavings(ctx context.Context, s core.Savings) (core.Savings, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO savings (owner_id, name, start_date, end_date, goal_amount, current_amount, remaining_amount, last_deposit_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.OwnerID, s.Name, s.StartDate.String(), s.EndDate.String(),
			s.GoalAmount, s.CurrentAmount, s.RemainingAmount, depositDateParam(s.LastDepositDate))
		if err != nil {
			return fmt.Errorf("insert savings: %w", err)
		}
		s.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert savings: %w", err)
		}
		return replaceCategoryLinks(ctx, tx, s.ID, s.CategoryIDs)
	})
	if err != nil {
		return core.Savings{}, err
	}
	slog.InfoContext(ctx, "Savings goal created", "id", s.ID, "goal", s.GoalAmount.String())
	return s, nil
}

func (r *SQLiteRepository) GetSavingsForOwner(ctx context.Context, ownerID, id int64) (core.Savings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, start_date, end_date, goal_amount, current_amount, remaining_amount, last_deposit_date
		 FROM savings WHERE id = ? AND owner_id = ?`, id, ownerID)
	s, err := scanSavings(row)
	if err != nil {
		return core.Savings{}, err
	}
	s.CategoryIDs, err = r.categoryLinks(ctx, s.ID)
	return s, err
}

func (r *SQLiteRepository) ListSavings(ctx context.Context, ownerID int64) ([]core.Savings, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, start_date, end_date, goal_amount, current_amount, remaining_amount, last_deposit_date
		 FROM savings WHERE owner_id = ? ORDER BY end_date, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list savings: %w", err)
	}
	defer rows.Close()

	var goals []core.Savings
	for rows.Next() {
		s, err := scanSavings(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range goals {
		goals[i].CategoryIDs, err = r.categoryLinks(ctx, goals[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return goals, nil
}

// UpdateSavings rewrites the goal's editable fields and category links.
// The caller re-derives the remaining amount before saving.
func (r *SQLiteRepository) UpdateSavings(ctx context.Context, s core.Savings) (core.Savings, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE savings SET name = ?, end_date = ?, goal_amount = ?, current_amount = ?, remaining_amount = ?, last_deposit_date = ?
			 WHERE id = ? AND owner_id = ?`,
			s.Name, s.EndDate.String(), s.GoalAmount, s.CurrentAmount, s.RemainingAmount,
			depositDateParam(s.LastDepositDate), s.ID, s.OwnerID)
		if err != nil {
			return fmt.Errorf("update savings: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		return replaceCategoryLinks(ctx, tx, s.ID, s.CategoryIDs)
	})
	if err != nil {
		return core.Savings{}, err
	}
	return s, nil
}

// DepositSavings persists a successful deposit and its ledger entry in one
// database transaction.
func (r *SQLiteRepository) DepositSavings(ctx context.Context, s core.Savings, txn core.Transaction) (core.Savings, core.Transaction, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE savings SET current_amount = ?, remaining_amount = ?, last_deposit_date = ?
			 WHERE id = ? AND owner_id = ?`,
			s.CurrentAmount, s.RemainingAmount, depositDateParam(s.LastDepositDate),
			s.ID, s.OwnerID)
		if err != nil {
			return fmt.Errorf("update savings deposit: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		txn, err = insertTransaction(ctx, tx, txn)
		return err
	})
	if err != nil {
		return core.Savings{}, core.Transaction{}, err
	}
	slog.InfoContext(ctx, "Savings deposit applied",
		"id", s.ID, "amount", txn.Amount.String(), "remaining", s.RemainingAmount.String())
	return s, txn, nil
}

func (r *SQLiteRepository) DeleteSavings(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM savings WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete savings: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) categoryLinks(ctx context.Context, savingsID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id FROM savings_categories WHERE savings_id = ? ORDER BY category_id`, savingsID)
	if err != nil {
		return nil, fmt.Errorf("list savings categories: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan savings category: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func replaceCategoryLinks(ctx context.Context, tx *sql.Tx, savingsID int64, categoryIDs []int64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM savings_categories WHERE savings_id = ?`, savingsID); err != nil {
		return fmt.Errorf("clear savings categories: %w", err)
	}
	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO savings_categories (savings_id, category_id) VALUES (?, ?)`,
			savingsID, categoryID); err != nil {
			return fmt.Errorf("link savings category %d: %w", categoryID, err)
		}
	}
	return nil
}

func depositDateParam(d *core.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func scanSavings(row rowScanner) (core.Savings, error) {
	var s core.Savings
	var start, end string
	var lastDeposit sql.NullString
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &start, &end,
		&s.GoalAmount, &s.CurrentAmount, &s.RemainingAmount, &lastDeposit)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Savings{}, core.ErrNotFound
	}
	if err != nil {
		return core.Savings{}, fmt.Errorf("scan savings: %w", err)
	}
	if s.StartDate, err = scanDate(start); err != nil {
		return core.Savings{}, err
	}
	if s.EndDate, err = scanDate(end); err != nil {
		return core.Savings{}, err
	}
	if lastDeposit.Valid {
		d, err := scanDate(lastDeposit.String)
		if err != nil {
			return core.Savings{}, err
		}
		s.LastDepositDate = &d
	}
	return s, nil
}
