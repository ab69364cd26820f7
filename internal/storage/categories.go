package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wallet/internal/core"
)

func (r *SQLiteRepository) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	var owner sql.NullInt64
	if !cat.IsBuilt {
		owner = sql.NullInt64{Int64: cat.OwnerID, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (owner_id, name, description, is_built) VALUES (?, ?, ?, ?)`,
		owner, cat.Name, cat.Description, cat.IsBuilt)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	cat.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

// GetCategoryForOwner returns a category visible to the owner: one of
// their own or any built-in.
func (r *SQLiteRepository) GetCategoryForOwner(ctx context.Context, ownerID, id int64) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, is_built FROM categories
		 WHERE id = ? AND (is_built = 1 OR owner_id = ?)`, id, ownerID)
	return scanCategory(row)
}

// GetBuiltinCategory looks up a built-in category by name, e.g. the
// reserved exchange category.
func (r *SQLiteRepository) GetBuiltinCategory(ctx context.Context, name string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, is_built FROM categories
		 WHERE is_built = 1 AND name = ?`, name)
	return scanCategory(row)
}

// ListCategories returns the built-ins followed by the owner's categories.
func (r *SQLiteRepository) ListCategories(ctx context.Context, ownerID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, description, is_built FROM categories
		 WHERE is_built = 1 OR owner_id = ?
		 ORDER BY is_built DESC, name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes one of the owner's categories. Built-ins are
// seeded by migration and cannot be deleted here. Dependent records keep
// existing with a null category via the schema's ON DELETE SET NULL.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND owner_id = ? AND is_built = 0`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanCategory(row rowScanner) (core.Category, error) {
	var c core.Category
	var owner sql.NullInt64
	err := row.Scan(&c.ID, &owner, &c.Name, &c.Description, &c.IsBuilt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}
	if owner.Valid {
		c.OwnerID = owner.Int64
	}
	return c, nil
}
