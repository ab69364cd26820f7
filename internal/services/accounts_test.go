package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

func newTestAccount(t *testing.T, store *memStore, svc *AccountService, balance int64, code string, rate decimal.Decimal) core.Account {
	t.Helper()
	currency, err := store.GetCurrencyByCode(context.Background(), code)
	if errors.Is(err, core.ErrNotFound) {
		currency = store.addCurrency(code, code, rate)
	} else if err != nil {
		t.Fatalf("currency %s: %v", code, err)
	}
	acc, err := svc.CreateAccount(context.Background(), 1, "checking "+code, currency.ID, decimal.NewFromInt(balance))
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	return acc
}

func TestDepositIncreasesBalance(t *testing.T) {
	store := newMemStore()
	svc := NewAccountService(store, testBaseCode)
	acc := newTestAccount(t, store, svc, 100, "EUR", decimal.NewFromInt(4))

	updated, txn, err := svc.Deposit(context.Background(), 1, acc.ID, MovementInput{
		Amount: decimal.NewFromInt(50), Date: mustDate("2026-08-01"),
	})
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if !updated.Balance.Equal(decimal.NewFromInt(150)) {
		t.Errorf("balance = %s, want 150", updated.Balance)
	}
	if txn.Type != core.TypeIncome || txn.CurrencyID != acc.CurrencyID {
		t.Errorf("ledger entry = %+v, want Income in account currency", txn)
	}
}

func TestWithdrawDecreasesBalance(t *testing.T) {
	store := newMemStore()
	svc := NewAccountService(store, testBaseCode)
	acc := newTestAccount(t, store, svc, 100, "EUR", decimal.NewFromInt(4))

	updated, txn, err := svc.Withdraw(context.Background(), 1, acc.ID, MovementInput{
		Amount: decimal.NewFromInt(30), Date: mustDate("2026-08-01"),
	})
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if !updated.Balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("balance = %s, want 70", updated.Balance)
	}
	if txn.Type != core.TypeExpense {
		t.Errorf("ledger entry type = %s, want Expense", txn.Type)
	}
}

func TestWithdrawRejectsOverdraft(t *testing.T) {
	store := newMemStore()
	svc := NewAccountService(store, testBaseCode)
	acc := newTestAccount(t, store, svc, 100, "EUR", decimal.NewFromInt(4))
	before := len(store.txns)

	_, _, err := svc.Withdraw(context.Background(), 1, acc.ID, MovementInput{
		Amount: decimal.NewFromInt(101), Date: mustDate("2026-08-01"),
	})
	if !errors.Is(err, core.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if !store.accounts[acc.ID].Balance.Equal(decimal.NewFromInt(100)) {
		t.Error("balance changed on rejected withdrawal")
	}
	if len(store.txns) != before {
		t.Error("rejected withdrawal left a ledger entry")
	}
}

func TestExchangeConvertsAtCurrencyRate(t *testing.T) {
	store := newMemStore()
	svc := NewAccountService(store, testBaseCode)
	acc := newTestAccount(t, store, svc, 100, "EUR", decimal.NewFromInt(2))
	ctx := context.Background()

	income, exchange, err := svc.Exchange(ctx, 1, acc.ID, decimal.NewFromInt(30), mustDate("2026-08-01"))
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if !income.Amount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("income amount = %s, want 60", income.Amount)
	}
	if !exchange.Amount.Equal(decimal.NewFromInt(30)) || exchange.Type != core.TypeExchange {
		t.Errorf("exchange entry = %+v, want Exchange of 30", exchange)
	}
	if exchange.CurrencyID != acc.CurrencyID {
		t.Error("exchange entry not in the account currency")
	}
	if !store.accounts[acc.ID].Balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("balance = %s, want 70", store.accounts[acc.ID].Balance)
	}

	exchangeCat, err := store.GetBuiltinCategory(ctx, core.ExchangeCategoryName)
	if err != nil {
		t.Fatalf("exchange category: %v", err)
	}
	if income.CategoryID == nil || *income.CategoryID != exchangeCat.ID {
		t.Error("exchange income not tagged with the reserved category")
	}
	mirror := store.txns[income.TransactionID]
	if mirror.Type != core.TypeIncome || !mirror.Amount.Equal(income.Amount) {
		t.Errorf("mirror = %+v, want Income of 60", mirror)
	}
	base, _ := store.GetCurrencyByCode(ctx, testBaseCode)
	if mirror.CurrencyID != base.ID {
		t.Error("converted income not denominated in the base currency")
	}
}

func TestExchangeRejectsInsufficientBalance(t *testing.T) {
	store := newMemStore()
	svc := NewAccountService(store, testBaseCode)
	acc := newTestAccount(t, store, svc, 1, "EUR", decimal.NewFromInt(1))
	before := len(store.txns)

	_, _, err := svc.Exchange(context.Background(), 1, acc.ID, decimal.NewFromInt(100), mustDate("2026-08-01"))
	if !errors.Is(err, core.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if !store.accounts[acc.ID].Balance.Equal(decimal.NewFromInt(1)) {
		t.Error("balance changed on rejected exchange")
	}
	if len(store.txns) != before || len(store.incomes) != 0 {
		t.Error("rejected exchange left rows behind")
	}
}

func TestCreateAccountValidation(t *testing.T) {
	store := newMemStore()
	svc := NewAccountService(store, testBaseCode)
	ctx := context.Background()
	base, _ := store.GetCurrencyByCode(ctx, testBaseCode)

	if _, err := svc.CreateAccount(ctx, 1, "  ", base.ID, decimal.Zero); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("blank name: err = %v, want ErrEmptyName", err)
	}
	if _, err := svc.CreateAccount(ctx, 1, "savings", base.ID, decimal.NewFromInt(-1)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("negative balance: err = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.CreateAccount(ctx, 1, "savings", 999, decimal.Zero); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown currency: err = %v, want ErrNotFound", err)
	}
}
