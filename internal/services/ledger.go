package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

type ledgerStore interface {
	LedgerStore
	CategoryStore
	CurrencyStore
}

// EntryInput carries the caller-supplied fields of one income or expense.
type EntryInput struct {
	Amount      decimal.Decimal
	Date        core.Date
	Description string
	CategoryID  *int64
}

// LedgerService records incomes and expenses together with their mirror
// transactions, keeping the two views of each movement in lockstep.
type LedgerService struct {
	store    ledgerStore
	baseCode string
}

func NewLedgerService(store ledgerStore, baseCode string) *LedgerService {
	return &LedgerService{store: store, baseCode: baseCode}
}

func (s *LedgerService) RecordIncome(ctx context.Context, ownerID int64, in EntryInput) (core.Income, error) {
	income := core.Income{
		OwnerID:     ownerID,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		CategoryID:  in.CategoryID,
	}
	if err := income.Validate(); err != nil {
		return core.Income{}, err
	}
	txn, err := s.mirrorFor(ctx, ownerID, in, core.TypeIncome)
	if err != nil {
		return core.Income{}, err
	}
	income, _, err = s.store.CreateIncomeWithTransaction(ctx, income, txn)
	return income, err
}

func (s *LedgerService) RecordExpense(ctx context.Context, ownerID int64, in EntryInput) (core.Expense, error) {
	expense := core.Expense{
		OwnerID:     ownerID,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		CategoryID:  in.CategoryID,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}
	txn, err := s.mirrorFor(ctx, ownerID, in, core.TypeExpense)
	if err != nil {
		return core.Expense{}, err
	}
	expense, _, err = s.store.CreateExpenseWithTransaction(ctx, expense, txn)
	return expense, err
}

func (s *LedgerService) UpdateIncome(ctx context.Context, ownerID, id int64, in EntryInput) (core.Income, error) {
	income, err := s.store.GetIncomeForOwner(ctx, ownerID, id)
	if err != nil {
		return core.Income{}, err
	}
	income.Amount = in.Amount
	income.Date = in.Date
	income.Description = in.Description
	income.CategoryID = in.CategoryID
	if err := income.Validate(); err != nil {
		return core.Income{}, err
	}
	if err := s.checkCategory(ctx, ownerID, in.CategoryID); err != nil {
		return core.Income{}, err
	}
	income, _, err = s.store.UpdateIncomeWithTransaction(ctx, income)
	return income, err
}

func (s *LedgerService) UpdateExpense(ctx context.Context, ownerID, id int64, in EntryInput) (core.Expense, error) {
	expense, err := s.store.GetExpenseForOwner(ctx, ownerID, id)
	if err != nil {
		return core.Expense{}, err
	}
	expense.Amount = in.Amount
	expense.Date = in.Date
	expense.Description = in.Description
	expense.CategoryID = in.CategoryID
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.checkCategory(ctx, ownerID, in.CategoryID); err != nil {
		return core.Expense{}, err
	}
	expense, _, err = s.store.UpdateExpenseWithTransaction(ctx, expense)
	return expense, err
}

func (s *LedgerService) DeleteIncome(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteIncome(ctx, ownerID, id)
}

func (s *LedgerService) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteExpense(ctx, ownerID, id)
}

func (s *LedgerService) GetIncome(ctx context.Context, ownerID, id int64) (core.Income, error) {
	return s.store.GetIncomeForOwner(ctx, ownerID, id)
}

func (s *LedgerService) GetExpense(ctx context.Context, ownerID, id int64) (core.Expense, error) {
	return s.store.GetExpenseForOwner(ctx, ownerID, id)
}

// ListIncomes returns the incomes inside the range together with their sum.
func (s *LedgerService) ListIncomes(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Income, decimal.Decimal, error) {
	incomes, err := s.store.ListIncomes(ctx, ownerID, rng)
	if err != nil {
		return nil, decimal.Zero, err
	}
	amounts := make([]decimal.Decimal, len(incomes))
	for i, in := range incomes {
		amounts[i] = in.Amount
	}
	return incomes, core.SumAmounts(amounts), nil
}

// ListExpenses returns the expenses inside the range together with their sum.
func (s *LedgerService) ListExpenses(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Expense, decimal.Decimal, error) {
	expenses, err := s.store.ListExpenses(ctx, ownerID, rng)
	if err != nil {
		return nil, decimal.Zero, err
	}
	amounts := make([]decimal.Decimal, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	return expenses, core.SumAmounts(amounts), nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, ownerID, rng)
}

// mirrorFor builds the ledger entry that shadows a plain income or expense.
// Entries recorded without an account are denominated in the base currency.
func (s *LedgerService) mirrorFor(ctx context.Context, ownerID int64, in EntryInput, typ core.TransactionType) (core.Transaction, error) {
	if err := s.checkCategory(ctx, ownerID, in.CategoryID); err != nil {
		return core.Transaction{}, err
	}
	base, err := s.store.GetCurrencyByCode(ctx, s.baseCode)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("resolve base currency %q: %w", s.baseCode, err)
	}
	return core.Transaction{
		OwnerID:     ownerID,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Type:        typ,
		CurrencyID:  base.ID,
	}, nil
}

func (s *LedgerService) checkCategory(ctx context.Context, ownerID int64, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	_, err := s.store.GetCategoryForOwner(ctx, ownerID, *categoryID)
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("category %d: %w", *categoryID, core.ErrNotFound)
	}
	return err
}
