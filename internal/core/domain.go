package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeIncome   TransactionType = "Income"
	TypeExpense  TransactionType = "Expense"
	TypeSavings  TransactionType = "Savings"
	TypeExchange TransactionType = "Exchange"
)

// ExchangeCategoryName is the reserved built-in category used for incomes
// produced by currency conversions. Dashboard income totals skip it so
// exchanged money is not counted as new income.
const ExchangeCategoryName = "exchange"

type (
	TransactionType string

	Date struct {
		time.Time
	}

	// Currency holds the registry entry for one currency. ExchangeRate is
	// expressed as units of the base currency per one unit of this currency;
	// the base currency itself always carries rate 1.
	Currency struct {
		ID           int64
		Code         string
		Name         string
		Symbol       string
		ExchangeRate decimal.Decimal
	}

	// Category tags incomes, expenses and transactions. Built-in categories
	// (IsBuilt) have no owner and are visible to every user.
	Category struct {
		ID          int64
		OwnerID     int64 // zero for built-ins
		Name        string
		Description string
		IsBuilt     bool
	}

	// Account is a per-owner balance in a single currency. The balance is
	// always expressed in the account's own currency.
	Account struct {
		ID         int64
		OwnerID    int64
		Name       string
		CurrencyID int64
		Balance    decimal.Decimal
	}

	// Transaction is the canonical ledger record of one money movement.
	// Amount is always non-negative; the type says which way money moved.
	Transaction struct {
		ID          int64
		OwnerID     int64
		Amount      decimal.Decimal
		Date        Date
		Description string
		CategoryID  *int64
		Type        TransactionType
		CurrencyID  int64
	}

	// Income mirrors exactly one Transaction of type Income. The shared
	// fields must match the linked Transaction after every save.
	Income struct {
		ID            int64
		OwnerID       int64
		Amount        decimal.Decimal
		Date          Date
		Description   string
		CategoryID    *int64
		TransactionID int64
	}

	// Expense mirrors exactly one Transaction of type Expense.
	Expense struct {
		ID            int64
		OwnerID       int64
		Amount        decimal.Decimal
		Date          Date
		Description   string
		CategoryID    *int64
		TransactionID int64
	}

	// Savings is a goal accumulator. RemainingAmount is a cached derivation
	// of GoalAmount - CurrentAmount and is recomputed with DeriveRemaining
	// after every mutation; it is never decremented independently.
	Savings struct {
		ID              int64
		OwnerID         int64
		Name            string
		StartDate       Date
		EndDate         Date
		GoalAmount      decimal.Decimal
		CurrentAmount   decimal.Decimal
		RemainingAmount decimal.Decimal
		CategoryIDs     []int64
		LastDepositDate *Date
	}
)

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date truncated to midnight UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses the wire format used for all dates (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// DateRange bounds a query window. A zero From or To leaves that side
// unbounded; present bounds are inclusive.
type DateRange struct {
	From Date
	To   Date
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From.Time) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To.Time) {
		return false
	}
	return true
}

// LastDays returns the window starting windowDays before today, open on
// the upper side, matching the dashboard's 30-day convention.
func LastDays(windowDays int) DateRange {
	today := Today()
	return DateRange{From: Date{Time: today.AddDate(0, 0, -windowDays)}}
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	switch t.Type {
	case TypeIncome, TypeExpense, TypeSavings, TypeExchange:
	default:
		return ErrInvalidType
	}
	return nil
}

func (i Income) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if !i.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (s Savings) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if err := s.EndDate.Validate(); err != nil {
		return err
	}
	if !s.GoalAmount.IsPositive() {
		return ErrInvalidGoal
	}
	return nil
}

// DeriveRemaining recomputes the cached remaining amount from its source
// fields. Every write path calls this; nothing else touches RemainingAmount.
func (s *Savings) DeriveRemaining() {
	s.RemainingAmount = s.GoalAmount.Sub(s.CurrentAmount)
}

// MonthlyDeposit is the suggested deposit to reach the goal by EndDate:
// the remaining amount split over the whole months left, or the full goal
// amount when less than one month remains.
func (s Savings) MonthlyDeposit(today Date) decimal.Decimal {
	months := wholeMonthsBetween(today, s.EndDate)
	if months < 1 {
		return s.GoalAmount
	}
	return s.RemainingAmount.Div(decimal.NewFromInt(int64(months)))
}

func wholeMonthsBetween(from, to Date) int {
	if !to.After(from.Time) {
		return 0
	}
	months := 0
	cursor := from.AddDate(0, 1, 0)
	for !cursor.After(to.Time) {
		months++
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months
}
