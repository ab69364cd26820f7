package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

type accountStore interface {
	AccountStore
	CategoryStore
	CurrencyStore
}

// MovementInput carries the caller-supplied fields of one account deposit
// or withdrawal.
type MovementInput struct {
	Amount      decimal.Decimal
	Date        core.Date
	Description string
	CategoryID  *int64
}

// AccountService owns account balances: it applies deposits, withdrawals
// and currency exchanges, refusing any movement that would overdraw.
type AccountService struct {
	store    accountStore
	baseCode string
}

func NewAccountService(store accountStore, baseCode string) *AccountService {
	return &AccountService{store: store, baseCode: baseCode}
}

func (s *AccountService) CreateAccount(ctx context.Context, ownerID int64, name string, currencyID int64, balance decimal.Decimal) (core.Account, error) {
	if strings.TrimSpace(name) == "" {
		return core.Account{}, core.ErrEmptyName
	}
	if balance.IsNegative() {
		return core.Account{}, core.ErrInvalidAmount
	}
	if _, err := s.store.GetCurrency(ctx, currencyID); err != nil {
		return core.Account{}, fmt.Errorf("currency %d: %w", currencyID, err)
	}
	return s.store.CreateAccount(ctx, core.Account{
		OwnerID:    ownerID,
		Name:       name,
		CurrencyID: currencyID,
		Balance:    balance,
	})
}

func (s *AccountService) GetAccount(ctx context.Context, ownerID, id int64) (core.Account, error) {
	return s.store.GetAccountForOwner(ctx, ownerID, id)
}

func (s *AccountService) ListAccounts(ctx context.Context, ownerID int64) ([]core.Account, error) {
	return s.store.ListAccounts(ctx, ownerID)
}

func (s *AccountService) DeleteAccount(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteAccount(ctx, ownerID, id)
}

// Deposit adds money to the account and records the movement in the
// account's own currency.
func (s *AccountService) Deposit(ctx context.Context, ownerID, accountID int64, in MovementInput) (core.Account, core.Transaction, error) {
	account, err := s.prepareMovement(ctx, ownerID, accountID, in)
	if err != nil {
		return core.Account{}, core.Transaction{}, err
	}
	newBalance := account.Balance.Add(in.Amount)
	txn, err := s.store.ApplyAccountMovement(ctx, account, newBalance, core.Transaction{
		OwnerID:     ownerID,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Type:        core.TypeIncome,
		CurrencyID:  account.CurrencyID,
	})
	if err != nil {
		return core.Account{}, core.Transaction{}, err
	}
	account.Balance = newBalance
	return account, txn, nil
}

// Withdraw removes money from the account. A withdrawal larger than the
// balance is rejected and nothing is written.
func (s *AccountService) Withdraw(ctx context.Context, ownerID, accountID int64, in MovementInput) (core.Account, core.Transaction, error) {
	account, err := s.prepareMovement(ctx, ownerID, accountID, in)
	if err != nil {
		return core.Account{}, core.Transaction{}, err
	}
	if in.Amount.GreaterThan(account.Balance) {
		return core.Account{}, core.Transaction{}, core.ErrInsufficientBalance
	}
	newBalance := account.Balance.Sub(in.Amount)
	txn, err := s.store.ApplyAccountMovement(ctx, account, newBalance, core.Transaction{
		OwnerID:     ownerID,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Type:        core.TypeExpense,
		CurrencyID:  account.CurrencyID,
	})
	if err != nil {
		return core.Account{}, core.Transaction{}, err
	}
	account.Balance = newBalance
	return account, txn, nil
}

// Exchange converts an amount held on the account into the base currency.
// The face amount leaves the account, an income for amount times the
// account currency's rate is recorded under the reserved exchange
// category, and an Exchange ledger entry keeps the original amount in the
// account's currency. The three writes land together or not at all.
func (s *AccountService) Exchange(ctx context.Context, ownerID, accountID int64, amount decimal.Decimal, date core.Date) (core.Income, core.Transaction, error) {
	if !amount.IsPositive() {
		return core.Income{}, core.Transaction{}, core.ErrInvalidAmount
	}
	if err := date.Validate(); err != nil {
		return core.Income{}, core.Transaction{}, err
	}
	account, err := s.store.GetAccountForOwner(ctx, ownerID, accountID)
	if err != nil {
		return core.Income{}, core.Transaction{}, err
	}
	if amount.GreaterThan(account.Balance) {
		return core.Income{}, core.Transaction{}, core.ErrInsufficientBalance
	}
	currency, err := s.store.GetCurrency(ctx, account.CurrencyID)
	if err != nil {
		return core.Income{}, core.Transaction{}, fmt.Errorf("currency %d: %w", account.CurrencyID, err)
	}
	base, err := s.store.GetCurrencyByCode(ctx, s.baseCode)
	if err != nil {
		return core.Income{}, core.Transaction{}, fmt.Errorf("resolve base currency %q: %w", s.baseCode, err)
	}
	exchangeCat, err := s.store.GetBuiltinCategory(ctx, core.ExchangeCategoryName)
	if err != nil {
		return core.Income{}, core.Transaction{}, fmt.Errorf("resolve exchange category: %w", err)
	}

	converted := core.Round2(core.Convert(amount, currency.ExchangeRate))
	description := fmt.Sprintf("Exchange from %s", currency.Code)
	categoryID := exchangeCat.ID

	income := core.Income{
		OwnerID:     ownerID,
		Amount:      converted,
		Date:        date,
		Description: description,
		CategoryID:  &categoryID,
	}
	mirror := core.Transaction{
		OwnerID:     ownerID,
		Amount:      converted,
		Date:        date,
		Description: description,
		CategoryID:  &categoryID,
		Type:        core.TypeIncome,
		CurrencyID:  base.ID,
	}
	exchange := core.Transaction{
		OwnerID:     ownerID,
		Amount:      amount,
		Date:        date,
		Description: description,
		CategoryID:  &categoryID,
		Type:        core.TypeExchange,
		CurrencyID:  account.CurrencyID,
	}
	return s.store.ApplyExchange(ctx, account, account.Balance.Sub(amount), income, mirror, exchange)
}

func (s *AccountService) prepareMovement(ctx context.Context, ownerID, accountID int64, in MovementInput) (core.Account, error) {
	if !in.Amount.IsPositive() {
		return core.Account{}, core.ErrInvalidAmount
	}
	if err := in.Date.Validate(); err != nil {
		return core.Account{}, err
	}
	if in.CategoryID != nil {
		if _, err := s.store.GetCategoryForOwner(ctx, ownerID, *in.CategoryID); err != nil {
			return core.Account{}, fmt.Errorf("category %d: %w", *in.CategoryID, err)
		}
	}
	return s.store.GetAccountForOwner(ctx, ownerID, accountID)
}
