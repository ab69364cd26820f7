package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
	"wallet/internal/services"
)

type entryRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id"`
}

func (req entryRequest) toInput() (services.EntryInput, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return services.EntryInput{}, err
	}
	return services.EntryInput{
		Amount:      req.Amount,
		Date:        date,
		Description: sanitizeInput(req.Description),
		CategoryID:  req.CategoryID,
	}, nil
}

type entryResponse struct {
	ID            int64  `json:"id"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	CategoryID    *int64 `json:"category_id"`
	TransactionID int64  `json:"transaction_id"`
}

func incomeResponse(in core.Income) entryResponse {
	return entryResponse{
		ID:            in.ID,
		Amount:        in.Amount.String(),
		Date:          in.Date.String(),
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		TransactionID: in.TransactionID,
	}
}

func expenseResponse(e core.Expense) entryResponse {
	return entryResponse{
		ID:            e.ID,
		Amount:        e.Amount.String(),
		Date:          e.Date.String(),
		Description:   e.Description,
		CategoryID:    e.CategoryID,
		TransactionID: e.TransactionID,
	}
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
	CategoryID  *int64 `json:"category_id"`
	Type        string `json:"type"`
	CurrencyID  int64  `json:"currency_id"`
}

func txnResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount.String(),
		Date:        t.Date.String(),
		Description: t.Description,
		CategoryID:  t.CategoryID,
		Type:        string(t.Type),
		CurrencyID:  t.CurrencyID,
	}
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	income, err := s.ledger.RecordIncome(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, incomeResponse(income))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	expense, err := s.ledger.RecordExpense(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseResponse(expense))
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	income, err := s.ledger.GetIncome(r.Context(), owner, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incomeResponse(income))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	expense, err := s.ledger.GetExpense(r.Context(), owner, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseResponse(expense))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	income, err := s.ledger.UpdateIncome(r.Context(), owner, id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incomeResponse(income))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	expense, err := s.ledger.UpdateExpense(r.Context(), owner, id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseResponse(expense))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.ledger.DeleteIncome(r.Context(), owner, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.ledger.DeleteExpense(r.Context(), owner, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	incomes, total, err := s.ledger.ListIncomes(r.Context(), owner, rng)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]entryResponse, 0, len(incomes))
	for _, in := range incomes {
		items = append(items, incomeResponse(in))
	}
	writeJSON(w, http.StatusOK, struct {
		Incomes []entryResponse `json:"incomes"`
		Total   string          `json:"total"`
	}{items, total.String()})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	expenses, total, err := s.ledger.ListExpenses(r.Context(), owner, rng)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]entryResponse, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, expenseResponse(e))
	}
	writeJSON(w, http.StatusOK, struct {
		Expenses []entryResponse `json:"expenses"`
		Total    string          `json:"total"`
	}{items, total.String()})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	txns, err := s.ledger.ListTransactions(r.Context(), owner, rng)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		items = append(items, txnResponse(t))
	}
	writeJSON(w, http.StatusOK, struct {
		Transactions []transactionResponse `json:"transactions"`
	}{items})
}
