// Package memstore implements store.Store in process memory. It backs the
// "memory" store driver and the handler tests.
package memstore

import (
	"cmp"
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodshare/foodshare/internal/store"
)

// Store keeps every collection in maps keyed by hex id.
type Store struct {
	mu        sync.RWMutex
	foods     map[string]store.FoodItem
	secondary map[string]store.FoodItem
	requests  map[string]store.FoodRequest
	users     map[string]store.User
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		foods:     make(map[string]store.FoodItem),
		secondary: make(map[string]store.FoodItem),
		requests:  make(map[string]store.FoodRequest),
		users:     make(map[string]store.User),
	}
}

func (s *Store) Ping(ctx context.Context) error  { return ctx.Err() }
func (s *Store) Close(ctx context.Context) error { return nil }

// ListAvailableFoods filters, sorts and pages the foods map.
func (s *Store) ListAvailableFoods(ctx context.Context, q store.ListingQuery) ([]store.FoodItem, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []store.FoodItem
	for _, f := range s.foods {
		if f.FoodStatus != store.FoodAvailable {
			continue
		}
		if q.Search != "" && !containsFold(f.FoodName, q.Search) {
			continue
		}
		if q.Location != "" && !containsFold(f.PickupLocation, q.Location) {
			continue
		}
		matches = append(matches, f)
	}

	field := q.SortField
	if field == "" {
		field = "expire_date"
	}
	sort.Slice(matches, func(i, j int) bool {
		c := compareFood(matches[i], matches[j], field)
		if c == 0 {
			return matches[i].ID.Hex() < matches[j].ID.Hex()
		}
		if q.SortDesc {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(matches))
	if q.Paginate && q.Limit > 0 {
		matches = window(matches, q.Skip(), q.Limit)
	}
	return nonNil(matches), total, nil
}

// GetFood returns a copy of the item with the given id.
func (s *Store) GetFood(ctx context.Context, id string) (*store.FoodItem, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.foods[oid.Hex()]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &f, nil
}

// ListFoodsByDonor returns the donor's items, newest first.
func (s *Store) ListFoodsByDonor(ctx context.Context, email string) ([]store.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.donorFoods(email), nil
}

// RecentFoodsByDonor returns the donor's n newest items.
func (s *Store) RecentFoodsByDonor(ctx context.Context, email string, n int) ([]store.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return window(s.donorFoods(email), 0, n), nil
}

func (s *Store) donorFoods(email string) []store.FoodItem {
	out := []store.FoodItem{}
	for _, f := range s.foods {
		if f.DonatorEmail == email {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// HighestFoods returns the n items with the largest quantity.
func (s *Store) HighestFoods(ctx context.Context, n int) ([]store.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.FoodItem, 0, len(s.foods))
	for _, f := range s.foods {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FoodQuantity != out[j].FoodQuantity {
			return out[i].FoodQuantity > out[j].FoodQuantity
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return window(out, 0, n), nil
}

func (s *Store) CreateFood(ctx context.Context, item *store.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = primitive.NewObjectID()
	s.foods[item.ID.Hex()] = *item
	return nil
}

func (s *Store) CreateSecondaryFood(ctx context.Context, item *store.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = primitive.NewObjectID()
	s.secondary[item.ID.Hex()] = *item
	return nil
}

// UpdateFood applies the set fields of u to the stored item.
func (s *Store) UpdateFood(ctx context.Context, id string, u store.FoodUpdate) (*store.FoodItem, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.foods[oid.Hex()]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Apply(&f)
	s.foods[oid.Hex()] = f
	return &f, nil
}

func (s *Store) DeleteFood(ctx context.Context, id string) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.foods[oid.Hex()]; !ok {
		return store.ErrNotFound
	}
	delete(s.foods, oid.Hex())
	return nil
}

func (s *Store) CountFoods(ctx context.Context, c store.FoodCount) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, f := range s.foods {
		if c.DonorEmail != "" && f.DonatorEmail != c.DonorEmail {
			continue
		}
		if c.Status != "" && f.FoodStatus != c.Status {
			continue
		}
		n++
	}
	return n, nil
}

// SecondaryFoods returns the items of the secondary collection.
func (s *Store) SecondaryFoods() []store.FoodItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.FoodItem, 0, len(s.secondary))
	for _, f := range s.secondary {
		out = append(out, f)
	}
	return out
}

func compareFood(a, b store.FoodItem, field string) int {
	switch field {
	case "food_quantity":
		return cmp.Compare(a.FoodQuantity, b.FoodQuantity)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "food_name":
		return strings.Compare(a.FoodName, b.FoodName)
	default:
		return a.ExpireDate.Compare(b.ExpireDate)
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func window[T any](items []T, skip, limit int) []T {
	if skip < 0 || skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
