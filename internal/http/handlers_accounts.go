package http

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
	"wallet/internal/services"
)

type accountRequest struct {
	Name       string          `json:"name"`
	CurrencyID int64           `json:"currency_id"`
	Balance    decimal.Decimal `json:"balance"`
}

type accountResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CurrencyID int64  `json:"currency_id"`
	Balance    string `json:"balance"`
}

func accountToResponse(acc core.Account) accountResponse {
	return accountResponse{
		ID:         acc.ID,
		Name:       acc.Name,
		CurrencyID: acc.CurrencyID,
		Balance:    acc.Balance.String(),
	}
}

type movementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id"`
}

func (req movementRequest) toInput() (services.MovementInput, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return services.MovementInput{}, err
	}
	return services.MovementInput{
		Amount:      req.Amount,
		Date:        date,
		Description: sanitizeInput(req.Description),
		CategoryID:  req.CategoryID,
	}, nil
}

type movementResponse struct {
	Account     accountResponse     `json:"account"`
	Transaction transactionResponse `json:"transaction"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	acc, err := s.accounts.CreateAccount(r.Context(), owner, sanitizeInput(req.Name), req.CurrencyID, req.Balance)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountToResponse(acc))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	acc, err := s.accounts.GetAccount(r.Context(), owner, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountToResponse(acc))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	accounts, err := s.accounts.ListAccounts(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]accountResponse, 0, len(accounts))
	for _, acc := range accounts {
		items = append(items, accountToResponse(acc))
	}
	writeJSON(w, http.StatusOK, struct {
		Accounts []accountResponse `json:"accounts"`
	}{items})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.accounts.DeleteAccount(r.Context(), owner, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAccountDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleMovement(w, r, s.accounts.Deposit)
}

func (s *Server) handleAccountWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleMovement(w, r, s.accounts.Withdraw)
}

func (s *Server) handleMovement(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, ownerID, accountID int64, in services.MovementInput) (core.Account, core.Transaction, error)) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req movementRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	acc, txn, err := apply(r.Context(), owner, id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movementResponse{
		Account:     accountToResponse(acc),
		Transaction: txnResponse(txn),
	})
}

type exchangeRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

func (s *Server) handleAccountExchange(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req exchangeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	income, exchange, err := s.accounts.Exchange(r.Context(), owner, id, req.Amount, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Income      entryResponse       `json:"income"`
		Transaction transactionResponse `json:"transaction"`
	}{incomeResponse(income), txnResponse(exchange)})
}
