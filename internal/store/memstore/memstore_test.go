package memstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/foodshare/foodshare/internal/store"
)

func addFood(t *testing.T, s *Store, item store.FoodItem) store.FoodItem {
	t.Helper()
	if item.FoodStatus == "" {
		item.FoodStatus = store.FoodAvailable
	}
	if err := s.CreateFood(context.Background(), &item); err != nil {
		t.Fatalf("CreateFood: %v", err)
	}
	return item
}

func TestHighestFoods(t *testing.T) {
	s := New()
	for _, q := range []int{3, 10, 7, 1, 5, 9, 2, 8, 4, 6} {
		addFood(t, s, store.FoodItem{FoodName: fmt.Sprintf("item-%d", q), FoodQuantity: q})
	}

	foods, err := s.HighestFoods(context.Background(), 6)
	if err != nil {
		t.Fatalf("HighestFoods: %v", err)
	}

	want := []int{10, 9, 8, 7, 6, 5}
	if len(foods) != len(want) {
		t.Fatalf("expected %d foods, got %d", len(want), len(foods))
	}
	for i, f := range foods {
		if f.FoodQuantity != want[i] {
			t.Errorf("position %d: expected quantity %d, got %d", i, want[i], f.FoodQuantity)
		}
	}
}

func TestListAvailableFoods(t *testing.T) {
	s := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		addFood(t, s, store.FoodItem{
			FoodName:       fmt.Sprintf("Bread %02d", i),
			PickupLocation: "Mirpur",
			ExpireDate:     base.Add(time.Duration(i) * time.Hour),
		})
	}
	addFood(t, s, store.FoodItem{FoodName: "Green Apple", PickupLocation: "Uttara", ExpireDate: base})
	addFood(t, s, store.FoodItem{FoodName: "apple pie", PickupLocation: "Banani", ExpireDate: base})
	addFood(t, s, store.FoodItem{FoodName: "Apple juice", FoodStatus: store.FoodDonated, ExpireDate: base})

	ctx := context.Background()

	t.Run("pagination", func(t *testing.T) {
		for page := 1; page <= 4; page++ {
			q := store.ListingQuery{Page: page, Limit: 8, Paginate: true}
			foods, total, err := s.ListAvailableFoods(ctx, q)
			if err != nil {
				t.Fatalf("ListAvailableFoods: %v", err)
			}
			if total != 22 {
				t.Errorf("page %d: expected total 22, got %d", page, total)
			}
			if len(foods) > q.Limit {
				t.Errorf("page %d: %d results exceed limit %d", page, len(foods), q.Limit)
			}
			wantLen := 8
			if page == 3 {
				wantLen = 6
			}
			if page == 4 {
				wantLen = 0
			}
			if len(foods) != wantLen {
				t.Errorf("page %d: expected %d results, got %d", page, wantLen, len(foods))
			}
		}
	})

	t.Run("search is case-insensitive and skips unavailable", func(t *testing.T) {
		foods, total, err := s.ListAvailableFoods(ctx, store.ListingQuery{Search: "APPLE"})
		if err != nil {
			t.Fatalf("ListAvailableFoods: %v", err)
		}
		if total != 2 || len(foods) != 2 {
			t.Fatalf("expected 2 apples, got total=%d len=%d", total, len(foods))
		}
		for _, f := range foods {
			if f.FoodStatus != store.FoodAvailable {
				t.Errorf("unexpected status %s", f.FoodStatus)
			}
		}
	})

	t.Run("location filter", func(t *testing.T) {
		foods, _, _ := s.ListAvailableFoods(ctx, store.ListingQuery{Location: "utt"})
		if len(foods) != 1 || foods[0].FoodName != "Green Apple" {
			t.Errorf("expected only Green Apple, got %v", foods)
		}
	})

	t.Run("page beyond int range is empty", func(t *testing.T) {
		q := store.ListingQuery{Page: math.MaxInt, Limit: 2, Paginate: true}
		foods, total, err := s.ListAvailableFoods(ctx, q)
		if err != nil {
			t.Fatalf("ListAvailableFoods: %v", err)
		}
		if total != 22 || len(foods) != 0 {
			t.Errorf("expected total 22 and no results, got total=%d len=%d", total, len(foods))
		}
	})

	t.Run("sort descending", func(t *testing.T) {
		foods, _, _ := s.ListAvailableFoods(ctx, store.ListingQuery{Search: "bread", SortField: "expire_date", SortDesc: true})
		if foods[0].FoodName != "Bread 19" {
			t.Errorf("expected Bread 19 first, got %s", foods[0].FoodName)
		}
	})
}

func TestWindowNegativeSkip(t *testing.T) {
	if got := window([]int{1, 2, 3}, -4, 2); len(got) != 0 {
		t.Errorf("expected empty window, got %v", got)
	}
}

func TestSortByExtremeQuantities(t *testing.T) {
	ctx := context.Background()
	s := New()
	addFood(t, s, store.FoodItem{FoodName: "max", FoodQuantity: math.MaxInt})
	addFood(t, s, store.FoodItem{FoodName: "min", FoodQuantity: math.MinInt + 1})
	addFood(t, s, store.FoodItem{FoodName: "zero", FoodQuantity: 0})

	names := func(foods []store.FoodItem) string {
		var out []string
		for _, f := range foods {
			out = append(out, f.FoodName)
		}
		return strings.Join(out, ",")
	}

	asc, _, _ := s.ListAvailableFoods(ctx, store.ListingQuery{SortField: "food_quantity"})
	if got := names(asc); got != "min,zero,max" {
		t.Errorf("ascending order = %s", got)
	}
	desc, _, _ := s.ListAvailableFoods(ctx, store.ListingQuery{SortField: "food_quantity", SortDesc: true})
	if got := names(desc); got != "max,zero,min" {
		t.Errorf("descending order = %s", got)
	}
}

func TestAcceptRequest(t *testing.T) {
	ctx := context.Background()
	s := New()
	food := addFood(t, s, store.FoodItem{FoodName: "Rice", FoodQuantity: 3})

	req := store.FoodRequest{FoodID: food.ID.Hex(), RequesterEmail: "r@example.com", Status: store.RequestPending}
	if err := s.CreateRequest(ctx, &req); err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	got, err := s.AcceptRequest(ctx, req.ID.Hex())
	if err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	if got.Status != store.RequestAccepted {
		t.Errorf("expected accepted, got %s", got.Status)
	}
	stored, _ := s.GetFood(ctx, food.ID.Hex())
	if stored.FoodStatus != store.FoodDonated {
		t.Errorf("expected food donated, got %s", stored.FoodStatus)
	}

	t.Run("missing food leaves request untouched", func(t *testing.T) {
		orphan := store.FoodRequest{FoodID: "64b000000000000000000000", RequesterEmail: "r@example.com", Status: store.RequestPending}
		s.CreateRequest(ctx, &orphan)

		_, err := s.AcceptRequest(ctx, orphan.ID.Hex())
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		reqs, _ := s.RequestsByFood(ctx, orphan.FoodID)
		if len(reqs) != 1 || reqs[0].Status != store.RequestPending {
			t.Errorf("expected request to stay pending, got %v", reqs)
		}
	})

	t.Run("uppercase food id", func(t *testing.T) {
		other := addFood(t, s, store.FoodItem{FoodName: "Lentils", FoodQuantity: 1})
		upper := store.FoodRequest{FoodID: strings.ToUpper(other.ID.Hex()), RequesterEmail: "r@example.com", Status: store.RequestPending}
		if err := s.CreateRequest(ctx, &upper); err != nil {
			t.Fatalf("CreateRequest: %v", err)
		}
		if _, err := s.AcceptRequest(ctx, upper.ID.Hex()); err != nil {
			t.Fatalf("AcceptRequest: %v", err)
		}
		stored, _ := s.GetFood(ctx, other.ID.Hex())
		if stored.FoodStatus != store.FoodDonated {
			t.Errorf("expected food donated, got %s", stored.FoodStatus)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		if _, err := s.AcceptRequest(ctx, "nope"); !errors.Is(err, store.ErrInvalidID) {
			t.Errorf("expected ErrInvalidID, got %v", err)
		}
	})
}

func TestCreateUserIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateUserIfAbsent(ctx, &store.User{Email: "a@example.com", Role: store.RoleUser})
	if err != nil || !created {
		t.Fatalf("expected first insert to create, got created=%v err=%v", created, err)
	}
	created, err = s.CreateUserIfAbsent(ctx, &store.User{Email: "a@example.com", Role: store.RoleAdmin})
	if err != nil || created {
		t.Fatalf("expected duplicate to be skipped, got created=%v err=%v", created, err)
	}

	users, _ := s.ListUsers(ctx)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].Role != store.RoleUser {
		t.Errorf("duplicate insert changed role to %s", users[0].Role)
	}
}

func TestUpdateFoodIsPartial(t *testing.T) {
	ctx := context.Background()
	s := New()
	food := addFood(t, s, store.FoodItem{FoodName: "Milk", FoodQuantity: 2, PickupLocation: "Gulshan"})

	qty := 5
	updated, err := s.UpdateFood(ctx, food.ID.Hex(), store.FoodUpdate{FoodQuantity: &qty})
	if err != nil {
		t.Fatalf("UpdateFood: %v", err)
	}
	if updated.FoodQuantity != 5 || updated.FoodName != "Milk" || updated.PickupLocation != "Gulshan" {
		t.Errorf("unexpected item after partial update: %+v", updated)
	}

	if err := s.DeleteFood(ctx, food.ID.Hex()); err != nil {
		t.Fatalf("DeleteFood: %v", err)
	}
	if err := s.DeleteFood(ctx, food.ID.Hex()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
