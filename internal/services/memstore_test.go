package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

// memStore is an in-memory Store with the same atomicity and ownership
// semantics as the SQLite repository, used to exercise the services
// without a database.
type memStore struct {
	currencies map[int64]core.Currency
	categories map[int64]core.Category
	incomes    map[int64]core.Income
	expenses   map[int64]core.Expense
	txns       map[int64]core.Transaction
	accounts   map[int64]core.Account
	savings    map[int64]core.Savings
	nextID     int64
}

const testBaseCode = "PLN"

func newMemStore() *memStore {
	s := &memStore{
		currencies: make(map[int64]core.Currency),
		categories: make(map[int64]core.Category),
		incomes:    make(map[int64]core.Income),
		expenses:   make(map[int64]core.Expense),
		txns:       make(map[int64]core.Transaction),
		accounts:   make(map[int64]core.Account),
		savings:    make(map[int64]core.Savings),
	}
	s.addCurrency(testBaseCode, "Polish zloty", decimal.NewFromInt(1))
	s.categories[s.id()] = core.Category{ID: s.nextID, Name: core.ExchangeCategoryName, IsBuilt: true}
	return s
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addCurrency(code, name string, rate decimal.Decimal) core.Currency {
	c := core.Currency{ID: s.id(), Code: code, Name: name, ExchangeRate: rate}
	s.currencies[c.ID] = c
	return c
}

func (s *memStore) GetCurrency(_ context.Context, id int64) (core.Currency, error) {
	c, ok := s.currencies[id]
	if !ok {
		return core.Currency{}, core.ErrNotFound
	}
	return c, nil
}

func (s *memStore) GetCurrencyByCode(_ context.Context, code string) (core.Currency, error) {
	for _, c := range s.currencies {
		if c.Code == code {
			return c, nil
		}
	}
	return core.Currency{}, core.ErrNotFound
}

func (s *memStore) ListCurrencies(_ context.Context) ([]core.Currency, error) {
	var out []core.Currency
	for _, c := range s.currencies {
		out = append(out, c)
	}
	return out, nil
}

func (s *memStore) CreateCategory(_ context.Context, cat core.Category) (core.Category, error) {
	cat.ID = s.id()
	s.categories[cat.ID] = cat
	return cat, nil
}

func (s *memStore) GetCategoryForOwner(_ context.Context, ownerID, id int64) (core.Category, error) {
	c, ok := s.categories[id]
	if !ok || (!c.IsBuilt && c.OwnerID != ownerID) {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (s *memStore) GetBuiltinCategory(_ context.Context, name string) (core.Category, error) {
	for _, c := range s.categories {
		if c.IsBuilt && c.Name == name {
			return c, nil
		}
	}
	return core.Category{}, core.ErrNotFound
}

func (s *memStore) ListCategories(_ context.Context, ownerID int64) ([]core.Category, error) {
	var out []core.Category
	for _, c := range s.categories {
		if c.IsBuilt || c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) DeleteCategory(_ context.Context, ownerID, id int64) error {
	c, ok := s.categories[id]
	if !ok || c.IsBuilt || c.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *memStore) insertTxn(txn core.Transaction) core.Transaction {
	txn.ID = s.id()
	s.txns[txn.ID] = txn
	return txn
}

func (s *memStore) CreateIncomeWithTransaction(_ context.Context, in core.Income, txn core.Transaction) (core.Income, core.Transaction, error) {
	txn = s.insertTxn(txn)
	in.ID = s.id()
	in.TransactionID = txn.ID
	s.incomes[in.ID] = in
	return in, txn, nil
}

func (s *memStore) CreateExpenseWithTransaction(_ context.Context, e core.Expense, txn core.Transaction) (core.Expense, core.Transaction, error) {
	txn = s.insertTxn(txn)
	e.ID = s.id()
	e.TransactionID = txn.ID
	s.expenses[e.ID] = e
	return e, txn, nil
}

func (s *memStore) UpdateIncomeWithTransaction(_ context.Context, in core.Income) (core.Income, core.Transaction, error) {
	old, ok := s.incomes[in.ID]
	if !ok || old.OwnerID != in.OwnerID {
		return core.Income{}, core.Transaction{}, core.ErrNotFound
	}
	in.TransactionID = old.TransactionID
	s.incomes[in.ID] = in
	txn := s.txns[in.TransactionID]
	txn.Amount, txn.Date, txn.Description, txn.CategoryID = in.Amount, in.Date, in.Description, in.CategoryID
	s.txns[txn.ID] = txn
	return in, txn, nil
}

func (s *memStore) UpdateExpenseWithTransaction(_ context.Context, e core.Expense) (core.Expense, core.Transaction, error) {
	old, ok := s.expenses[e.ID]
	if !ok || old.OwnerID != e.OwnerID {
		return core.Expense{}, core.Transaction{}, core.ErrNotFound
	}
	e.TransactionID = old.TransactionID
	s.expenses[e.ID] = e
	txn := s.txns[e.TransactionID]
	txn.Amount, txn.Date, txn.Description, txn.CategoryID = e.Amount, e.Date, e.Description, e.CategoryID
	s.txns[txn.ID] = txn
	return e, txn, nil
}

func (s *memStore) DeleteIncome(_ context.Context, ownerID, id int64) error {
	in, ok := s.incomes[id]
	if !ok || in.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.txns, in.TransactionID)
	delete(s.incomes, id)
	return nil
}

func (s *memStore) DeleteExpense(_ context.Context, ownerID, id int64) error {
	e, ok := s.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.txns, e.TransactionID)
	delete(s.expenses, id)
	return nil
}

func (s *memStore) GetIncomeForOwner(_ context.Context, ownerID, id int64) (core.Income, error) {
	in, ok := s.incomes[id]
	if !ok || in.OwnerID != ownerID {
		return core.Income{}, core.ErrNotFound
	}
	return in, nil
}

func (s *memStore) GetExpenseForOwner(_ context.Context, ownerID, id int64) (core.Expense, error) {
	e, ok := s.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return core.Expense{}, core.ErrNotFound
	}
	return e, nil
}

func (s *memStore) ListIncomes(_ context.Context, ownerID int64, rng core.DateRange) ([]core.Income, error) {
	var out []core.Income
	for _, in := range s.incomes {
		if in.OwnerID == ownerID && rng.Contains(in.Date) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s *memStore) ListExpenses(_ context.Context, ownerID int64, rng core.DateRange) ([]core.Expense, error) {
	var out []core.Expense
	for _, e := range s.expenses {
		if e.OwnerID == ownerID && rng.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) ListTransactions(_ context.Context, ownerID int64, rng core.DateRange) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range s.txns {
		if t.OwnerID == ownerID && rng.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) CreateAccount(_ context.Context, acc core.Account) (core.Account, error) {
	acc.ID = s.id()
	s.accounts[acc.ID] = acc
	return acc, nil
}

func (s *memStore) GetAccountForOwner(_ context.Context, ownerID, id int64) (core.Account, error) {
	acc, ok := s.accounts[id]
	if !ok || acc.OwnerID != ownerID {
		return core.Account{}, core.ErrNotFound
	}
	return acc, nil
}

func (s *memStore) ListAccounts(_ context.Context, ownerID int64) ([]core.Account, error) {
	var out []core.Account
	for _, acc := range s.accounts {
		if acc.OwnerID == ownerID {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (s *memStore) DeleteAccount(_ context.Context, ownerID, id int64) error {
	acc, ok := s.accounts[id]
	if !ok || acc.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *memStore) ApplyAccountMovement(_ context.Context, account core.Account, newBalance decimal.Decimal, txn core.Transaction) (core.Transaction, error) {
	acc, ok := s.accounts[account.ID]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	acc.Balance = newBalance
	s.accounts[acc.ID] = acc
	return s.insertTxn(txn), nil
}

func (s *memStore) ApplyExchange(_ context.Context, account core.Account, newBalance decimal.Decimal, income core.Income, mirror, exchange core.Transaction) (core.Income, core.Transaction, error) {
	acc, ok := s.accounts[account.ID]
	if !ok {
		return core.Income{}, core.Transaction{}, core.ErrNotFound
	}
	acc.Balance = newBalance
	s.accounts[acc.ID] = acc
	mirror = s.insertTxn(mirror)
	income.ID = s.id()
	income.TransactionID = mirror.ID
	s.incomes[income.ID] = income
	return income, s.insertTxn(exchange), nil
}

func (s *memStore) CreateSavings(_ context.Context, sv core.Savings) (core.Savings, error) {
	sv.ID = s.id()
	s.savings[sv.ID] = sv
	return sv, nil
}

func (s *memStore) GetSavingsForOwner(_ context.Context, ownerID, id int64) (core.Savings, error) {
	sv, ok := s.savings[id]
	if !ok || sv.OwnerID != ownerID {
		return core.Savings{}, core.ErrNotFound
	}
	return sv, nil
}

func (s *memStore) ListSavings(_ context.Context, ownerID int64) ([]core.Savings, error) {
	var out []core.Savings
	for _, sv := range s.savings {
		if sv.OwnerID == ownerID {
			out = append(out, sv)
		}
	}
	return out, nil
}

func (s *memStore) UpdateSavings(_ context.Context, sv core.Savings) (core.Savings, error) {
	old, ok := s.savings[sv.ID]
	if !ok || old.OwnerID != sv.OwnerID {
		return core.Savings{}, core.ErrNotFound
	}
	s.savings[sv.ID] = sv
	return sv, nil
}

func (s *memStore) DepositSavings(_ context.Context, sv core.Savings, txn core.Transaction) (core.Savings, core.Transaction, error) {
	old, ok := s.savings[sv.ID]
	if !ok || old.OwnerID != sv.OwnerID {
		return core.Savings{}, core.Transaction{}, core.ErrNotFound
	}
	s.savings[sv.ID] = sv
	return sv, s.insertTxn(txn), nil
}

func (s *memStore) DeleteSavings(_ context.Context, ownerID, id int64) error {
	sv, ok := s.savings[id]
	if !ok || sv.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.savings, id)
	return nil
}

func mustDate(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		panic(fmt.Sprintf("bad test date %q: %v", s, err))
	}
	return d
}
