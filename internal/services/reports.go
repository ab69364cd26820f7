package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

type reportStore interface {
	LedgerStore
	AccountStore
	CategoryStore
	CurrencyStore
}

// ReportService computes the read-only aggregates: the dashboard summary
// and per-category totals over a trailing window.
type ReportService struct {
	store      reportStore
	baseCode   string
	windowDays int
}

func NewReportService(store reportStore, baseCode string, windowDays int) *ReportService {
	return &ReportService{store: store, baseCode: baseCode, windowDays: windowDays}
}

// Dashboard aggregates the owner's trailing window. Incomes tagged with
// the reserved exchange category are excluded from the income total so a
// conversion never shows up as earnings, and window transactions are
// split between the base currency and everything else.
func (s *ReportService) Dashboard(ctx context.Context, ownerID int64) (core.DashboardSummary, error) {
	rng := core.LastDays(s.windowDays)

	expenses, err := s.store.ListExpenses(ctx, ownerID, rng)
	if err != nil {
		return core.DashboardSummary{}, err
	}
	incomes, err := s.store.ListIncomes(ctx, ownerID, rng)
	if err != nil {
		return core.DashboardSummary{}, err
	}
	txns, err := s.store.ListTransactions(ctx, ownerID, rng)
	if err != nil {
		return core.DashboardSummary{}, err
	}
	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return core.DashboardSummary{}, err
	}
	base, err := s.store.GetCurrencyByCode(ctx, s.baseCode)
	if err != nil {
		return core.DashboardSummary{}, fmt.Errorf("resolve base currency %q: %w", s.baseCode, err)
	}
	exchangeID, err := s.exchangeCategoryID(ctx)
	if err != nil {
		return core.DashboardSummary{}, err
	}

	var expenseAmounts, incomeAmounts []decimal.Decimal
	for _, e := range expenses {
		expenseAmounts = append(expenseAmounts, e.Amount)
	}
	for _, in := range incomes {
		if exchangeID != nil && in.CategoryID != nil && *in.CategoryID == *exchangeID {
			continue
		}
		incomeAmounts = append(incomeAmounts, in.Amount)
	}

	summary := core.DashboardSummary{
		ExpenseTotal: core.SumAmounts(expenseAmounts),
		IncomeTotal:  core.SumAmounts(incomeAmounts),
		Accounts:     accounts,
	}
	summary.Net = core.Round2(summary.IncomeTotal.Sub(summary.ExpenseTotal))
	summary.ExpenseDisplay = core.DisplayRound(summary.ExpenseTotal)
	summary.IncomeDisplay = core.DisplayRound(summary.IncomeTotal)

	for _, t := range txns {
		if t.CurrencyID == base.ID {
			summary.BaseTransactions = append(summary.BaseTransactions, t)
		} else {
			summary.ForeignTransactions = append(summary.ForeignTransactions, t)
		}
	}
	return summary, nil
}

// CategoryStats totals window expenses and incomes per visible category.
// Categories without any matching records appear with zero totals.
func (s *ReportService) CategoryStats(ctx context.Context, ownerID int64) ([]core.CategoryStat, error) {
	rng := core.LastDays(s.windowDays)

	categories, err := s.store.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, ownerID, rng)
	if err != nil {
		return nil, err
	}
	incomes, err := s.store.ListIncomes(ctx, ownerID, rng)
	if err != nil {
		return nil, err
	}

	expenseByCat := make(map[int64]decimal.Decimal)
	incomeByCat := make(map[int64]decimal.Decimal)
	for _, e := range expenses {
		if e.CategoryID != nil {
			expenseByCat[*e.CategoryID] = expenseByCat[*e.CategoryID].Add(e.Amount)
		}
	}
	for _, in := range incomes {
		if in.CategoryID != nil {
			incomeByCat[*in.CategoryID] = incomeByCat[*in.CategoryID].Add(in.Amount)
		}
	}

	stats := make([]core.CategoryStat, 0, len(categories))
	for _, c := range categories {
		stats = append(stats, core.CategoryStat{
			Category:     c,
			TotalExpense: expenseByCat[c.ID],
			TotalIncome:  incomeByCat[c.ID],
		})
	}
	return stats, nil
}

func (s *ReportService) exchangeCategoryID(ctx context.Context) (*int64, error) {
	cat, err := s.store.GetBuiltinCategory(ctx, core.ExchangeCategoryName)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat.ID, nil
}
