package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
	"wallet/internal/services"
)

type savingsRequest struct {
	Name        string          `json:"name"`
	EndDate     string          `json:"end_date"`
	GoalAmount  decimal.Decimal `json:"goal_amount"`
	CategoryIDs []int64         `json:"category_ids"`
}

func (req savingsRequest) toInput() (services.SavingsInput, error) {
	endDate, err := core.ParseDate(req.EndDate)
	if err != nil {
		return services.SavingsInput{}, err
	}
	return services.SavingsInput{
		Name:        sanitizeInput(req.Name),
		EndDate:     endDate,
		GoalAmount:  req.GoalAmount,
		CategoryIDs: req.CategoryIDs,
	}, nil
}

type savingsResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	GoalAmount      string  `json:"goal_amount"`
	CurrentAmount   string  `json:"current_amount"`
	RemainingAmount string  `json:"remaining_amount"`
	MonthlyDeposit  string  `json:"monthly_deposit"`
	CategoryIDs     []int64 `json:"category_ids"`
	LastDepositDate *string `json:"last_deposit_date"`
}

func savingsToResponse(sv core.Savings) savingsResponse {
	resp := savingsResponse{
		ID:              sv.ID,
		Name:            sv.Name,
		StartDate:       sv.StartDate.String(),
		EndDate:         sv.EndDate.String(),
		GoalAmount:      sv.GoalAmount.String(),
		CurrentAmount:   sv.CurrentAmount.String(),
		RemainingAmount: sv.RemainingAmount.String(),
		MonthlyDeposit:  core.Round2(sv.MonthlyDeposit(core.Today())).String(),
		CategoryIDs:     sv.CategoryIDs,
	}
	if sv.LastDepositDate != nil {
		d := sv.LastDepositDate.String()
		resp.LastDepositDate = &d
	}
	return resp
}

func (s *Server) handleCreateSavings(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req savingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	goal, err := s.savings.CreateGoal(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, savingsToResponse(goal))
}

func (s *Server) handleGetSavings(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	goal, err := s.savings.GetGoal(r.Context(), owner, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, savingsToResponse(goal))
}

func (s *Server) handleListSavings(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	goals, err := s.savings.ListGoals(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]savingsResponse, 0, len(goals))
	for _, g := range goals {
		items = append(items, savingsToResponse(g))
	}
	writeJSON(w, http.StatusOK, struct {
		Savings []savingsResponse `json:"savings"`
	}{items})
}

func (s *Server) handleEditSavings(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req savingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	goal, err := s.savings.EditGoal(r.Context(), owner, id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, savingsToResponse(goal))
}

func (s *Server) handleDeleteSavings(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.savings.DeleteGoal(r.Context(), owner, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSavingsDeposit(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	goal, err := s.savings.Deposit(r.Context(), owner, id, req.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, savingsToResponse(goal))
}
