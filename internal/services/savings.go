package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

type savingsStore interface {
	SavingsStore
	CategoryStore
	CurrencyStore
}

// SavingsInput carries the caller-supplied fields of a savings goal.
type SavingsInput struct {
	Name        string
	EndDate     core.Date
	GoalAmount  decimal.Decimal
	CategoryIDs []int64
}

// SavingsService tracks progress toward savings goals. Deposits may never
// push a goal past its target, and each successful deposit is recorded in
// the ledger.
type SavingsService struct {
	store    savingsStore
	baseCode string
}

func NewSavingsService(store savingsStore, baseCode string) *SavingsService {
	return &SavingsService{store: store, baseCode: baseCode}
}

func (s *SavingsService) CreateGoal(ctx context.Context, ownerID int64, in SavingsInput) (core.Savings, error) {
	goal := core.Savings{
		OwnerID:     ownerID,
		Name:        in.Name,
		StartDate:   core.Today(),
		EndDate:     in.EndDate,
		GoalAmount:  in.GoalAmount,
		CategoryIDs: in.CategoryIDs,
	}
	if err := goal.Validate(); err != nil {
		return core.Savings{}, err
	}
	if err := s.checkCategories(ctx, ownerID, in.CategoryIDs); err != nil {
		return core.Savings{}, err
	}
	goal.DeriveRemaining()
	return s.store.CreateSavings(ctx, goal)
}

func (s *SavingsService) GetGoal(ctx context.Context, ownerID, id int64) (core.Savings, error) {
	return s.store.GetSavingsForOwner(ctx, ownerID, id)
}

func (s *SavingsService) ListGoals(ctx context.Context, ownerID int64) ([]core.Savings, error) {
	return s.store.ListSavings(ctx, ownerID)
}

// EditGoal rewrites the editable fields. The start date, accumulated
// amount and last deposit date are untouched; the remaining amount is
// re-derived from the possibly changed target.
func (s *SavingsService) EditGoal(ctx context.Context, ownerID, id int64, in SavingsInput) (core.Savings, error) {
	goal, err := s.store.GetSavingsForOwner(ctx, ownerID, id)
	if err != nil {
		return core.Savings{}, err
	}
	goal.Name = in.Name
	goal.EndDate = in.EndDate
	goal.GoalAmount = in.GoalAmount
	goal.CategoryIDs = in.CategoryIDs
	if err := goal.Validate(); err != nil {
		return core.Savings{}, err
	}
	if err := s.checkCategories(ctx, ownerID, in.CategoryIDs); err != nil {
		return core.Savings{}, err
	}
	goal.DeriveRemaining()
	return s.store.UpdateSavings(ctx, goal)
}

// Deposit moves amount into the goal. A deposit larger than what is still
// needed is rejected and nothing is written; on success the goal's
// accumulated and remaining amounts, the deposit date stamp and the
// ledger entry all land together.
func (s *SavingsService) Deposit(ctx context.Context, ownerID, id int64, amount decimal.Decimal) (core.Savings, error) {
	if !amount.IsPositive() {
		return core.Savings{}, core.ErrInvalidAmount
	}
	goal, err := s.store.GetSavingsForOwner(ctx, ownerID, id)
	if err != nil {
		return core.Savings{}, err
	}
	if amount.GreaterThan(goal.RemainingAmount) {
		return core.Savings{}, core.ErrExceedsRemaining
	}
	base, err := s.store.GetCurrencyByCode(ctx, s.baseCode)
	if err != nil {
		return core.Savings{}, fmt.Errorf("resolve base currency %q: %w", s.baseCode, err)
	}

	today := core.Today()
	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	goal.DeriveRemaining()
	goal.LastDepositDate = &today

	goal, _, err = s.store.DepositSavings(ctx, goal, core.Transaction{
		OwnerID:     ownerID,
		Amount:      amount,
		Date:        today,
		Description: fmt.Sprintf("Deposit to %s", goal.Name),
		Type:        core.TypeSavings,
		CurrencyID:  base.ID,
	})
	return goal, err
}

func (s *SavingsService) DeleteGoal(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteSavings(ctx, ownerID, id)
}

func (s *SavingsService) checkCategories(ctx context.Context, ownerID int64, categoryIDs []int64) error {
	for _, id := range categoryIDs {
		if _, err := s.store.GetCategoryForOwner(ctx, ownerID, id); err != nil {
			return fmt.Errorf("category %d: %w", id, err)
		}
	}
	return nil
}
