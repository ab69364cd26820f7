package core

import "github.com/shopspring/decimal"

// CategoryStat aggregates expenses and incomes for one category over a
// reporting window. Totals default to zero when no records match.
type CategoryStat struct {
	Category     Category
	TotalExpense decimal.Decimal
	TotalIncome  decimal.Decimal
}

// DashboardSummary is the landing-page aggregate for one owner. The
// *Total fields keep full precision; the *Display fields carry the
// whole-number rounding used for headline figures.
type DashboardSummary struct {
	ExpenseTotal   decimal.Decimal
	IncomeTotal    decimal.Decimal
	Net            decimal.Decimal
	ExpenseDisplay int64
	IncomeDisplay  int64

	// Window transactions split by currency: entries in the base currency
	// and entries in any foreign one.
	BaseTransactions    []Transaction
	ForeignTransactions []Transaction

	Accounts []Account
}
