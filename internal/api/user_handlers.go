package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/foodshare/foodshare/internal/audit"
	"github.com/foodshare/foodshare/internal/store"
)

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// handleCreateUser registers a user on first sign-in. Role is never taken
// from the client.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	u := &store.User{
		Name:      req.Name,
		Email:     email,
		PhotoURL:  req.PhotoURL,
		Role:      store.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.store.CreateUserIfAbsent(r.Context(), u)
	if err != nil {
		writeStoreError(w, r, err, "user", "create user")
		return
	}
	if !created {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "user already exists"})
		return
	}

	s.record(r, audit.Event{
		ActorType: "user",
		ActorID:   u.Email,
		Action:    audit.ActionUserCreate,
		Resource:  "user:" + u.ID.Hex(),
	})

	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "user", "list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// handleGetUserRole reports the role for email. Unknown users are plain users.
func (s *Server) handleGetUserRole(w http.ResponseWriter, r *http.Request) {
	role := store.RoleUser

	u, err := s.store.GetUserByEmail(r.Context(), r.PathValue("email"))
	switch {
	case err == nil:
		role = u.Role
	case errors.Is(err, store.ErrNotFound):
	default:
		writeStoreError(w, r, err, "user", "get user role")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"role": role})
}

func (s *Server) handleSetUserRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !store.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, `role must be "user" or "admin"`)
		return
	}

	u, err := s.store.SetUserRole(r.Context(), id, req.Role)
	if err != nil {
		writeStoreError(w, r, err, "user", "update user role")
		return
	}

	s.record(r, audit.Event{
		Action:   audit.ActionUserRole,
		Resource: "user:" + id,
		Metadata: metadata("role", req.Role),
	})

	writeJSON(w, http.StatusOK, u)
}
