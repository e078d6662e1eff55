package memstore

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodshare/foodshare/internal/store"
)

func (s *Store) CreateRequest(ctx context.Context, req *store.FoodRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = primitive.NewObjectID()
	s.requests[req.ID.Hex()] = *req
	return nil
}

func (s *Store) RequestsByFood(ctx context.Context, foodID string) ([]store.FoodRequest, error) {
	return s.filterRequests(func(r store.FoodRequest) bool { return r.FoodID == foodID }), nil
}

func (s *Store) RequestsByRequester(ctx context.Context, email string) ([]store.FoodRequest, error) {
	return s.filterRequests(func(r store.FoodRequest) bool { return r.RequesterEmail == email }), nil
}

// SearchRequests matches q across requester name, email, pickup location and status.
func (s *Store) SearchRequests(ctx context.Context, q string) ([]store.FoodRequest, error) {
	return s.filterRequests(func(r store.FoodRequest) bool {
		if q == "" {
			return true
		}
		return containsFold(r.RequesterName, q) ||
			containsFold(r.RequesterEmail, q) ||
			containsFold(r.PickupLocation, q) ||
			containsFold(string(r.Status), q)
	}), nil
}

func (s *Store) CountRequests(ctx context.Context, requesterEmail string) (int64, error) {
	reqs, _ := s.RequestsByRequester(ctx, requesterEmail)
	return int64(len(reqs)), nil
}

func (s *Store) SetRequestStatus(ctx context.Context, id string, status store.RequestStatus) (*store.FoodRequest, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[oid.Hex()]
	if !ok {
		return nil, store.ErrNotFound
	}
	r.Status = status
	s.requests[oid.Hex()] = r
	return &r, nil
}

// AcceptRequest updates the request and its food item under one lock; when
// the food item is missing neither is changed.
func (s *Store) AcceptRequest(ctx context.Context, id string) (*store.FoodRequest, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[oid.Hex()]
	if !ok {
		return nil, store.ErrNotFound
	}
	foodKey := r.FoodID
	if foid, err := store.ParseID(r.FoodID); err == nil {
		foodKey = foid.Hex()
	}
	f, ok := s.foods[foodKey]
	if !ok {
		return nil, fmt.Errorf("request references food %q: %w", r.FoodID, store.ErrNotFound)
	}

	r.Status = store.RequestAccepted
	f.FoodStatus = store.FoodDonated
	s.requests[oid.Hex()] = r
	s.foods[foodKey] = f
	return &r, nil
}

func (s *Store) filterRequests(match func(store.FoodRequest) bool) []store.FoodRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []store.FoodRequest{}
	for _, r := range s.requests {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return out
}
