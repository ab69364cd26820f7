// Package services implements the reconciliation rules that keep ledger
// entries, income/expense mirrors, account balances and savings progress
// consistent as money moves between them.
package services

import (
	"context"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

// CurrencyStore reads the currency registry.
type CurrencyStore interface {
	GetCurrency(ctx context.Context, id int64) (core.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (core.Currency, error)
	ListCurrencies(ctx context.Context) ([]core.Currency, error)
}

// CategoryStore manages tagging categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, cat core.Category) (core.Category, error)
	GetCategoryForOwner(ctx context.Context, ownerID, id int64) (core.Category, error)
	GetBuiltinCategory(ctx context.Context, name string) (core.Category, error)
	ListCategories(ctx context.Context, ownerID int64) ([]core.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id int64) error
}

// LedgerStore persists incomes, expenses and their mirror transactions.
// The *WithTransaction operations are atomic: mirror and record land
// together or not at all.
type LedgerStore interface {
	CreateIncomeWithTransaction(ctx context.Context, in core.Income, txn core.Transaction) (core.Income, core.Transaction, error)
	CreateExpenseWithTransaction(ctx context.Context, e core.Expense, txn core.Transaction) (core.Expense, core.Transaction, error)
	UpdateIncomeWithTransaction(ctx context.Context, in core.Income) (core.Income, core.Transaction, error)
	UpdateExpenseWithTransaction(ctx context.Context, e core.Expense) (core.Expense, core.Transaction, error)
	DeleteIncome(ctx context.Context, ownerID, id int64) error
	DeleteExpense(ctx context.Context, ownerID, id int64) error
	GetIncomeForOwner(ctx context.Context, ownerID, id int64) (core.Income, error)
	GetExpenseForOwner(ctx context.Context, ownerID, id int64) (core.Expense, error)
	ListIncomes(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Income, error)
	ListExpenses(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Expense, error)
	ListTransactions(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Transaction, error)
}

// AccountStore persists accounts and applies balance movements atomically
// with their ledger entries.
type AccountStore interface {
	CreateAccount(ctx context.Context, acc core.Account) (core.Account, error)
	GetAccountForOwner(ctx context.Context, ownerID, id int64) (core.Account, error)
	ListAccounts(ctx context.Context, ownerID int64) ([]core.Account, error)
	DeleteAccount(ctx context.Context, ownerID, id int64) error
	ApplyAccountMovement(ctx context.Context, account core.Account, newBalance decimal.Decimal, txn core.Transaction) (core.Transaction, error)
	ApplyExchange(ctx context.Context, account core.Account, newBalance decimal.Decimal, income core.Income, mirror, exchange core.Transaction) (core.Income, core.Transaction, error)
}

// SavingsStore persists savings goals; DepositSavings lands the updated
// amounts and the ledger entry together.
type SavingsStore interface {
	CreateSavings(ctx context.Context, s core.Savings) (core.Savings, error)
	GetSavingsForOwner(ctx context.Context, ownerID, id int64) (core.Savings, error)
	ListSavings(ctx context.Context, ownerID int64) ([]core.Savings, error)
	UpdateSavings(ctx context.Context, s core.Savings) (core.Savings, error)
	DepositSavings(ctx context.Context, s core.Savings, txn core.Transaction) (core.Savings, core.Transaction, error)
	DeleteSavings(ctx context.Context, ownerID, id int64) error
}

// Store is the full persistence surface, satisfied by
// storage.SQLiteRepository.
type Store interface {
	CurrencyStore
	CategoryStore
	LedgerStore
	AccountStore
	SavingsStore
}
