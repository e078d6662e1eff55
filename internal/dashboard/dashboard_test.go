package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodshare/foodshare/internal/store"
	"github.com/foodshare/foodshare/internal/store/memstore"
)

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	donor := "donor@example.com"

	seed := []struct {
		status store.FoodStatus
		month  time.Month
	}{
		{store.FoodAvailable, time.January},
		{store.FoodAvailable, time.January},
		{store.FoodAvailable, time.March},
		{store.FoodDelivered, time.March},
		{store.FoodDelivered, time.June},
		{store.FoodExpired, time.December},
		{store.FoodDonated, time.December},
	}
	for i, sd := range seed {
		item := store.FoodItem{
			FoodName:     "item",
			DonatorEmail: donor,
			FoodStatus:   sd.status,
			CreatedAt:    time.Date(2026, sd.month, 1+i, 12, 0, 0, 0, time.UTC),
		}
		if err := s.CreateFood(ctx, &item); err != nil {
			t.Fatalf("CreateFood: %v", err)
		}
	}
	other := store.FoodItem{DonatorEmail: "other@example.com", FoodStatus: store.FoodAvailable, CreatedAt: time.Now()}
	s.CreateFood(ctx, &other)

	for i := 0; i < 3; i++ {
		s.CreateRequest(ctx, &store.FoodRequest{FoodID: other.ID.Hex(), RequesterEmail: donor, Status: store.RequestPending})
	}

	sum, err := New(s).Summarize(ctx, donor)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if sum.TotalAdded != int64(len(seed)) {
		t.Errorf("expected total %d, got %d", len(seed), sum.TotalAdded)
	}
	if sum.Available != 3 || sum.Delivered != 2 || sum.Expired != 1 || sum.Donated != 1 {
		t.Errorf("unexpected status counts %+v", sum)
	}
	if sum.Available+sum.Delivered+sum.Expired+sum.Donated != sum.TotalAdded {
		t.Errorf("status counts do not partition the total")
	}
	if sum.TotalRequests != 3 {
		t.Errorf("expected 3 requests, got %d", sum.TotalRequests)
	}

	if len(sum.RecentFoods) != RecentLimit {
		t.Fatalf("expected %d recent foods, got %d", RecentLimit, len(sum.RecentFoods))
	}
	for i := 1; i < len(sum.RecentFoods); i++ {
		if sum.RecentFoods[i].CreatedAt.After(sum.RecentFoods[i-1].CreatedAt) {
			t.Errorf("recent foods not sorted newest first")
		}
	}

	want := [12]int64{2, 0, 2, 0, 0, 1, 0, 0, 0, 0, 0, 2}
	if sum.Monthly != want {
		t.Errorf("monthly = %v, want %v", sum.Monthly, want)
	}
	var total int64
	for _, n := range sum.Monthly {
		total += n
	}
	if total != sum.TotalAdded {
		t.Errorf("histogram sums to %d, total is %d", total, sum.TotalAdded)
	}
}

func TestSummarizeUnknownDonor(t *testing.T) {
	sum, err := New(memstore.New()).Summarize(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.TotalAdded != 0 || len(sum.RecentFoods) != 0 || sum.Monthly != [12]int64{} {
		t.Errorf("expected empty summary, got %+v", sum)
	}
}

type failingReader struct{ *memstore.Store }

func (failingReader) CountRequests(ctx context.Context, email string) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestSummarizePropagatesErrors(t *testing.T) {
	r := failingReader{Store: memstore.New()}
	if _, err := New(r).Summarize(context.Background(), "x@example.com"); err == nil {
		t.Fatal("expected error")
	}
}
