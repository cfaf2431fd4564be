package http

import (
	"net/http"

	"spendlog/internal/core"
)

type setBudgetRequest struct {
	Month       string  `json:"month"`
	LimitAmount float64 `json:"limit_amount"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = core.CurrentMonth()
	}

	status, err := s.tracker.BudgetStatus(r.Context(), user.ID, month)
	if err != nil {
		respondCoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req setBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Month == "" {
		req.Month = core.CurrentMonth()
	}

	budget, status, err := s.tracker.SetBudget(r.Context(), user.ID, req.Month, req.LimitAmount)
	if err != nil {
		respondCoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"budget": budget,
		"status": status,
	})
}
