package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/foodshare/foodshare/internal/audit"
	"github.com/foodshare/foodshare/internal/listing"
	"github.com/foodshare/foodshare/internal/store"
)

type createFoodRequest struct {
	FoodName        string           `json:"food_name"`
	FoodImage       string           `json:"food_image"`
	FoodQuantity    int              `json:"food_quantity"`
	ExpireDate      time.Time        `json:"expire_date"`
	PickupLocation  string           `json:"pickup_location"`
	AdditionalNotes string           `json:"additional_notes"`
	DonatorName     string           `json:"donators_name"`
	DonatorEmail    string           `json:"donators_email"`
	DonatorImage    string           `json:"donators_image"`
	FoodStatus      store.FoodStatus `json:"food_status"`
}

func (req createFoodRequest) validate() error {
	if strings.TrimSpace(req.FoodName) == "" {
		return errors.New("food_name is required")
	}
	if strings.TrimSpace(req.DonatorEmail) == "" {
		return errors.New("donators_email is required")
	}
	if req.FoodQuantity < 0 {
		return errors.New("food_quantity must not be negative")
	}
	if req.FoodStatus != "" && !req.FoodStatus.Valid() {
		return errors.New("unknown food_status")
	}
	return nil
}

func (req createFoodRequest) item() *store.FoodItem {
	status := req.FoodStatus
	if status == "" {
		status = store.FoodAvailable
	}
	return &store.FoodItem{
		FoodName:        strings.TrimSpace(req.FoodName),
		FoodImage:       req.FoodImage,
		FoodQuantity:    req.FoodQuantity,
		ExpireDate:      req.ExpireDate,
		PickupLocation:  req.PickupLocation,
		AdditionalNotes: req.AdditionalNotes,
		DonatorName:     req.DonatorName,
		DonatorEmail:    strings.TrimSpace(req.DonatorEmail),
		DonatorImage:    req.DonatorImage,
		FoodStatus:      status,
		CreatedAt:       time.Now().UTC(),
	}
}

type listFoodsResponse struct {
	Foods      []store.FoodItem `json:"foods"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int64            `json:"total_pages"`
}

func (s *Server) handleListFoods(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r.URL.Query(), s.opts.PageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	foods, total, err := s.store.ListAvailableFoods(r.Context(), q)
	if err != nil {
		writeStoreError(w, r, err, "food", "list foods")
		return
	}

	writeJSON(w, http.StatusOK, listFoodsResponse{
		Foods:      foods,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: listing.TotalPages(total, q.Limit),
	})
}

func (s *Server) handleSearchFoods(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseSearch(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	foods, _, err := s.store.ListAvailableFoods(r.Context(), q)
	if err != nil {
		writeStoreError(w, r, err, "food", "search foods")
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

func (s *Server) handleHighestFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := s.store.HighestFoods(r.Context(), s.opts.HighestLimit)
	if err != nil {
		writeStoreError(w, r, err, "food", "list highest foods")
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

func (s *Server) handleGetFood(w http.ResponseWriter, r *http.Request) {
	food, err := s.store.GetFood(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, "food", "get food")
		return
	}
	writeJSON(w, http.StatusOK, food)
}

func (s *Server) handleMyFoods(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	foods, err := s.store.ListFoodsByDonor(r.Context(), email)
	if err != nil {
		writeStoreError(w, r, err, "food", "list donor foods")
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

func (s *Server) handleCreateFood(w http.ResponseWriter, r *http.Request) {
	s.createFood(w, r, s.store.CreateFood)
}

func (s *Server) handleCreateSecondaryFood(w http.ResponseWriter, r *http.Request) {
	s.createFood(w, r, s.store.CreateSecondaryFood)
}

func (s *Server) createFood(w http.ResponseWriter, r *http.Request, insert func(context.Context, *store.FoodItem) error) {
	var req createFoodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := req.item()
	if err := insert(r.Context(), item); err != nil {
		writeStoreError(w, r, err, "food", "create food")
		return
	}

	s.record(r, audit.Event{
		ActorType: "donor",
		ActorID:   item.DonatorEmail,
		Action:    audit.ActionFoodCreate,
		Resource:  "food:" + item.ID.Hex(),
	})

	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateFood(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var upd store.FoodUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if upd.Empty() {
		writeError(w, http.StatusBadRequest, "no updatable fields supplied")
		return
	}
	if upd.FoodStatus != nil && !upd.FoodStatus.Valid() {
		writeError(w, http.StatusBadRequest, "unknown food_status")
		return
	}
	if upd.FoodQuantity != nil && *upd.FoodQuantity < 0 {
		writeError(w, http.StatusBadRequest, "food_quantity must not be negative")
		return
	}

	food, err := s.store.UpdateFood(r.Context(), id, upd)
	if err != nil {
		writeStoreError(w, r, err, "food", "update food")
		return
	}

	s.record(r, audit.Event{
		ActorType: "donor",
		ActorID:   food.DonatorEmail,
		Action:    audit.ActionFoodUpdate,
		Resource:  "food:" + id,
	})

	writeJSON(w, http.StatusOK, food)
}

func (s *Server) handleDeleteFood(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteFood(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "food", "delete food")
		return
	}

	s.record(r, audit.Event{
		Action:   audit.ActionFoodDelete,
		Resource: "food:" + id,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true, "id": id})
}
