package http

import (
	"net/http"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	totals, err := s.tracker.SummaryByCategory(r.Context(), user.ID)
	if err != nil {
		respondCoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

// handleMonthlyTotals returns per-month totals keyed by "YYYY-MM".
// encoding/json writes map keys in sorted order, which is chronological
// for this key shape.
func (s *Server) handleMonthlyTotals(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	totals, err := s.tracker.MonthlyTotals(r.Context(), user.ID)
	if err != nil {
		respondCoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}
