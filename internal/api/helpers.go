package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/foodshare/foodshare/internal/audit"
	"github.com/foodshare/foodshare/internal/store"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body.
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeStoreError maps a store error onto a response. entity names the
// document kind in client-facing messages.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, entity, op string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid "+entity+" id")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, entity+" not found")
	default:
		logf(r, "%s failed: %v", op, err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}

// logf prefixes a log line with the request id.
func logf(r *http.Request, format string, args ...interface{}) {
	log.Printf("[%s] "+format, append([]interface{}{getRequestID(r.Context())}, args...)...)
}

// record writes an audit event; failures are logged, never returned.
func (s *Server) record(r *http.Request, ev audit.Event) {
	if ev.Outcome == "" {
		ev.Outcome = "success"
	}
	ev.IP = clientIP(r)
	if _, err := s.audit.Log(r.Context(), ev); err != nil {
		logf(r, "audit %s: %v", ev.Action, err)
	}
}

// metadata builds a one-field JSON object for audit events.
func metadata(key, value string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{key: value})
	return b
}
