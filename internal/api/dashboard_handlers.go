package api

import (
	"net/http"
	"strings"
)

// handleUserDashboard returns a donor's activity summary.
func (s *Server) handleUserDashboard(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PathValue("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	sum, err := s.dashboard.Summarize(r.Context(), email)
	if err != nil {
		writeStoreError(w, r, err, "dashboard", "build dashboard")
		return
	}

	writeJSON(w, http.StatusOK, sum)
}
