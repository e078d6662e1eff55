package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/foodshare/foodshare/internal/audit"
	"github.com/foodshare/foodshare/internal/store"
)

type createFoodRequestBody struct {
	FoodID         string `json:"food_id"`
	FoodName       string `json:"food_name"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	RequesterImage string `json:"requester_image"`
	PickupLocation string `json:"pickup_location"`
	Notes          string `json:"notes"`
}

type updateStatusRequest struct {
	Status store.RequestStatus `json:"status"`
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var body createFoodRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.FoodID == "" {
		writeError(w, http.StatusBadRequest, "food_id is required")
		return
	}
	foodID, err := store.ParseID(body.FoodID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid food id")
		return
	}
	if strings.TrimSpace(body.RequesterEmail) == "" {
		writeError(w, http.StatusBadRequest, "requester_email is required")
		return
	}

	req := &store.FoodRequest{
		FoodID:         foodID.Hex(),
		FoodName:       body.FoodName,
		RequesterName:  body.RequesterName,
		RequesterEmail: strings.TrimSpace(body.RequesterEmail),
		RequesterImage: body.RequesterImage,
		PickupLocation: body.PickupLocation,
		Notes:          body.Notes,
		Status:         store.RequestPending,
		RequestedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateRequest(r.Context(), req); err != nil {
		writeStoreError(w, r, err, "food request", "create food request")
		return
	}

	s.record(r, audit.Event{
		ActorType: "requester",
		ActorID:   req.RequesterEmail,
		Action:    audit.ActionRequestCreate,
		Resource:  "request:" + req.ID.Hex(),
	})

	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleRequestsByFood(w http.ResponseWriter, r *http.Request) {
	foodID := r.PathValue("foodId")
	if oid, err := store.ParseID(foodID); err == nil {
		foodID = oid.Hex()
	}
	reqs, err := s.store.RequestsByFood(r.Context(), foodID)
	if err != nil {
		writeStoreError(w, r, err, "food request", "list food requests")
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (s *Server) handleMyRequests(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	reqs, err := s.store.RequestsByRequester(r.Context(), email)
	if err != nil {
		writeStoreError(w, r, err, "food request", "list requester requests")
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (s *Server) handleSearchRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.store.SearchRequests(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		writeStoreError(w, r, err, "food request", "search food requests")
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (s *Server) handleUpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body updateStatusRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !body.Status.Valid() {
		writeError(w, http.StatusBadRequest, `status must be "pending", "accepted" or "rejected"`)
		return
	}

	s.setRequestStatus(w, r, id, body.Status, audit.ActionRequestStatus)
}

func (s *Server) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	s.setRequestStatus(w, r, r.PathValue("id"), store.RequestRejected, audit.ActionRequestReject)
}

func (s *Server) setRequestStatus(w http.ResponseWriter, r *http.Request, id string, status store.RequestStatus, action string) {
	req, err := s.store.SetRequestStatus(r.Context(), id, status)
	if err != nil {
		writeStoreError(w, r, err, "food request", "update food request")
		return
	}

	s.record(r, audit.Event{
		Action:   action,
		Resource: "request:" + id,
		Metadata: metadata("status", string(status)),
	})

	writeJSON(w, http.StatusOK, req)
}

// handleAcceptRequest accepts a request and marks its food donated atomically.
func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("requestId")

	req, err := s.store.AcceptRequest(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "food request or referenced food not found")
			return
		}
		writeStoreError(w, r, err, "food request", "accept food request")
		return
	}

	s.record(r, audit.Event{
		Action:   audit.ActionRequestAccept,
		Resource: "request:" + id,
		Metadata: metadata("food_id", req.FoodID),
	})

	writeJSON(w, http.StatusOK, req)
}
