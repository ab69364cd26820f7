package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

func TestRecordIncomeMirrorsTransaction(t *testing.T) {
	store := newMemStore()
	svc := NewLedgerService(store, testBaseCode)

	income, err := svc.RecordIncome(context.Background(), 1, EntryInput{
		Amount:      decimal.NewFromInt(2500),
		Date:        mustDate("2026-08-01"),
		Description: "salary",
	})
	if err != nil {
		t.Fatalf("RecordIncome: %v", err)
	}
	if income.TransactionID == 0 {
		t.Fatal("income not linked to a transaction")
	}
	txn, ok := store.txns[income.TransactionID]
	if !ok {
		t.Fatal("mirror transaction missing")
	}
	if txn.Type != core.TypeIncome {
		t.Errorf("mirror type = %s, want %s", txn.Type, core.TypeIncome)
	}
	if !txn.Amount.Equal(income.Amount) || txn.Date != income.Date || txn.Description != income.Description {
		t.Errorf("mirror fields diverge: txn=%+v income=%+v", txn, income)
	}
}

func TestRecordIncomeRejectsNonPositiveAmount(t *testing.T) {
	store := newMemStore()
	svc := NewLedgerService(store, testBaseCode)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := svc.RecordIncome(context.Background(), 1, EntryInput{
			Amount: amount,
			Date:   mustDate("2026-08-01"),
		})
		if !errors.Is(err, core.ErrInvalidAmount) {
			t.Errorf("amount %s: err = %v, want ErrInvalidAmount", amount, err)
		}
	}
	if len(store.incomes) != 0 || len(store.txns) != 0 {
		t.Error("rejected income left rows behind")
	}
}

func TestRecordExpenseUnknownCategory(t *testing.T) {
	store := newMemStore()
	svc := NewLedgerService(store, testBaseCode)

	missing := int64(999)
	_, err := svc.RecordExpense(context.Background(), 1, EntryInput{
		Amount:     decimal.NewFromInt(10),
		Date:       mustDate("2026-08-01"),
		CategoryID: &missing,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateExpenseKeepsMirrorInLockstep(t *testing.T) {
	store := newMemStore()
	svc := NewLedgerService(store, testBaseCode)
	ctx := context.Background()

	expense, err := svc.RecordExpense(ctx, 1, EntryInput{
		Amount: decimal.NewFromInt(40), Date: mustDate("2026-08-01"), Description: "groceries",
	})
	if err != nil {
		t.Fatalf("RecordExpense: %v", err)
	}

	updated, err := svc.UpdateExpense(ctx, 1, expense.ID, EntryInput{
		Amount: decimal.NewFromInt(55), Date: mustDate("2026-08-02"), Description: "groceries + snacks",
	})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	txn := store.txns[updated.TransactionID]
	if !txn.Amount.Equal(updated.Amount) || txn.Date != updated.Date || txn.Description != updated.Description {
		t.Errorf("mirror not updated: txn=%+v expense=%+v", txn, updated)
	}
}

func TestDeleteIncomeRemovesMirror(t *testing.T) {
	store := newMemStore()
	svc := NewLedgerService(store, testBaseCode)
	ctx := context.Background()

	income, err := svc.RecordIncome(ctx, 1, EntryInput{
		Amount: decimal.NewFromInt(100), Date: mustDate("2026-08-01"),
	})
	if err != nil {
		t.Fatalf("RecordIncome: %v", err)
	}
	if err := svc.DeleteIncome(ctx, 1, income.ID); err != nil {
		t.Fatalf("DeleteIncome: %v", err)
	}
	if len(store.incomes) != 0 {
		t.Error("income row survived delete")
	}
	if _, ok := store.txns[income.TransactionID]; ok {
		t.Error("mirror transaction survived delete")
	}
}

func TestDeleteIncomeWrongOwner(t *testing.T) {
	store := newMemStore()
	svc := NewLedgerService(store, testBaseCode)
	ctx := context.Background()

	income, err := svc.RecordIncome(ctx, 1, EntryInput{
		Amount: decimal.NewFromInt(100), Date: mustDate("2026-08-01"),
	})
	if err != nil {
		t.Fatalf("RecordIncome: %v", err)
	}
	if err := svc.DeleteIncome(ctx, 2, income.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListExpensesFiltersAndSums(t *testing.T) {
	store := newMemStore()
	svc := NewLedgerService(store, testBaseCode)
	ctx := context.Background()

	for _, e := range []struct {
		amount int64
		date   string
	}{
		{50, "2026-08-01"},
		{100, "2026-08-02"},
		{75, "2026-08-03"},
	} {
		if _, err := svc.RecordExpense(ctx, 1, EntryInput{
			Amount: decimal.NewFromInt(e.amount), Date: mustDate(e.date),
		}); err != nil {
			t.Fatalf("RecordExpense: %v", err)
		}
	}

	expenses, total, err := svc.ListExpenses(ctx, 1, core.DateRange{
		From: mustDate("2026-08-01"), To: mustDate("2026-08-02"),
	})
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("got %d expenses, want 2", len(expenses))
	}
	if !total.Equal(decimal.NewFromInt(150)) {
		t.Errorf("total = %s, want 150", total)
	}

	_, total, err = svc.ListExpenses(ctx, 2, core.DateRange{})
	if err != nil {
		t.Fatalf("ListExpenses other owner: %v", err)
	}
	if !total.Equal(decimal.Zero) {
		t.Errorf("empty total = %s, want 0", total)
	}
}
