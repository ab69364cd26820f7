package http

import (
	"net/http"

	"wallet/internal/core"
)

type dashboardResponse struct {
	ExpenseTotal   string `json:"expense_total"`
	IncomeTotal    string `json:"income_total"`
	Net            string `json:"net"`
	ExpenseDisplay int64  `json:"expense_display"`
	IncomeDisplay  int64  `json:"income_display"`

	BaseTransactions    []transactionResponse `json:"base_transactions"`
	ForeignTransactions []transactionResponse `json:"foreign_transactions"`
	Accounts            []accountResponse     `json:"accounts"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	summary, err := s.reports.Dashboard(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := dashboardResponse{
		ExpenseTotal:        summary.ExpenseTotal.String(),
		IncomeTotal:         summary.IncomeTotal.String(),
		Net:                 summary.Net.String(),
		ExpenseDisplay:      summary.ExpenseDisplay,
		IncomeDisplay:       summary.IncomeDisplay,
		BaseTransactions:    make([]transactionResponse, 0, len(summary.BaseTransactions)),
		ForeignTransactions: make([]transactionResponse, 0, len(summary.ForeignTransactions)),
		Accounts:            make([]accountResponse, 0, len(summary.Accounts)),
	}
	for _, t := range summary.BaseTransactions {
		resp.BaseTransactions = append(resp.BaseTransactions, txnResponse(t))
	}
	for _, t := range summary.ForeignTransactions {
		resp.ForeignTransactions = append(resp.ForeignTransactions, txnResponse(t))
	}
	for _, acc := range summary.Accounts {
		resp.Accounts = append(resp.Accounts, accountToResponse(acc))
	}
	writeJSON(w, http.StatusOK, resp)
}

type categoryStatResponse struct {
	Category     categoryResponse `json:"category"`
	TotalExpense string           `json:"total_expense"`
	TotalIncome  string           `json:"total_income"`
}

func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	stats, err := s.reports.CategoryStats(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]categoryStatResponse, 0, len(stats))
	for _, st := range stats {
		items = append(items, categoryStatResponse{
			Category:     categoryToResponse(st.Category),
			TotalExpense: st.TotalExpense.String(),
			TotalIncome:  st.TotalIncome.String(),
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Categories []categoryStatResponse `json:"categories"`
	}{items})
}

type currencyResponse struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	ExchangeRate string `json:"exchange_rate"`
}

func (s *Server) handleListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := s.registry.ListCurrencies(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]currencyResponse, 0, len(currencies))
	for _, c := range currencies {
		items = append(items, currencyResponse{
			ID:           c.ID,
			Code:         c.Code,
			Name:         c.Name,
			ExchangeRate: c.ExchangeRate.String(),
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Currencies []currencyResponse `json:"currencies"`
	}{items})
}

func (s *Server) handleRateRefresh(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOwner(w, r); !ok {
		return
	}
	if s.rates == nil {
		writeError(w, http.StatusServiceUnavailable, "rate refresh is not configured")
		return
	}
	if err := s.rates.PublishRateRefresh(r.Context(), "manual"); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, struct {
		Status string `json:"status"`
	}{"refresh requested"})
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsBuilt     bool   `json:"is_built"`
}

func categoryToResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsBuilt:     c.IsBuilt,
	}
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cat, err := s.registry.CreateCategory(r.Context(), owner, sanitizeInput(req.Name), sanitizeInput(req.Description))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryToResponse(cat))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	categories, err := s.registry.ListCategories(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, categoryToResponse(c))
	}
	writeJSON(w, http.StatusOK, struct {
		Categories []categoryResponse `json:"categories"`
	}{items})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.registry.DeleteCategory(r.Context(), owner, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
