package api

import (
	"context"
	"net/http"
	"time"

	"github.com/foodshare/foodshare/internal/audit"
	"github.com/foodshare/foodshare/internal/dashboard"
	"github.com/foodshare/foodshare/internal/store"
)

// Options tune handler behaviour.
type Options struct {
	HighestLimit   int           // size of /highest-foods
	PageSize       int           // default listing page size
	CORSOrigin     string        // Access-Control-Allow-Origin value
	RequestTimeout time.Duration // bound on store work per request
}

func (o *Options) setDefaults() {
	if o.HighestLimit <= 0 {
		o.HighestLimit = 6
	}
	if o.PageSize <= 0 {
		o.PageSize = 8
	}
	if o.CORSOrigin == "" {
		o.CORSOrigin = "*"
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
}

// Server holds all dependencies for the HTTP API.
type Server struct {
	store     store.Store
	dashboard *dashboard.Aggregator
	audit     *audit.Logger
	opts      Options
	mux       *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(st store.Store, auditLog *audit.Logger, opts Options) *Server {
	opts.setDefaults()
	if auditLog == nil {
		auditLog = audit.NewLogger(nil)
	}

	s := &Server{
		store:     st,
		dashboard: dashboard.New(st),
		audit:     auditLog,
		opts:      opts,
		mux:       http.NewServeMux(),
	}

	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = timeoutMiddleware(s.opts.RequestTimeout)(h)
	h = corsMiddleware(s.opts.CORSOrigin)(h)
	h = securityHeadersMiddleware(h)
	h = s.loggingMiddleware(h)
	return requestIDMiddleware(h)
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Liveness
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Foods
	s.mux.HandleFunc("GET /foods", s.handleListFoods)
	s.mux.HandleFunc("GET /total-foods", s.handleSearchFoods)
	s.mux.HandleFunc("GET /highest-foods", s.handleHighestFoods)
	s.mux.HandleFunc("GET /foods/{id}", s.handleGetFood)
	s.mux.HandleFunc("GET /my-foods", s.handleMyFoods)
	s.mux.HandleFunc("POST /foods", s.handleCreateFood)
	s.mux.HandleFunc("POST /food", s.handleCreateSecondaryFood)
	s.mux.HandleFunc("PUT /foods/{id}", s.handleUpdateFood)
	s.mux.HandleFunc("DELETE /foods/{id}", s.handleDeleteFood)

	// Users
	s.mux.HandleFunc("POST /users", s.handleCreateUser)
	s.mux.HandleFunc("GET /users", s.handleListUsers)
	s.mux.HandleFunc("GET /users/{email}/role", s.handleGetUserRole)
	s.mux.HandleFunc("PATCH /users/role/{id}", s.handleSetUserRole)

	// Food requests
	s.mux.HandleFunc("GET /request-food", s.handleSearchRequests)
	s.mux.HandleFunc("POST /food-request", s.handleCreateRequest)
	s.mux.HandleFunc("GET /food-request/{foodId}", s.handleRequestsByFood)
	s.mux.HandleFunc("GET /my-request", s.handleMyRequests)
	s.mux.HandleFunc("PATCH /food-request/accept/{requestId}", s.handleAcceptRequest)
	s.mux.HandleFunc("PATCH /food-request/reject/{id}", s.handleRejectRequest)
	s.mux.HandleFunc("PATCH /food-request/{id}", s.handleUpdateRequestStatus)

	// Dashboard
	s.mux.HandleFunc("GET /user-dashboard/{email}", s.handleUserDashboard)

	// Audit
	s.mux.HandleFunc("GET /audit", s.handleListAuditEvents)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Server is running..."))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		logf(r, "health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
