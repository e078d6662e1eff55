// Package dashboard assembles the per-donor activity summary.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/foodshare/foodshare/internal/store"
)

// RecentLimit is how many of the newest items a summary carries.
const RecentLimit = 5

// Reader is the subset of store.Store the aggregator needs.
type Reader interface {
	CountFoods(ctx context.Context, c store.FoodCount) (int64, error)
	CountRequests(ctx context.Context, requesterEmail string) (int64, error)
	RecentFoodsByDonor(ctx context.Context, email string, n int) ([]store.FoodItem, error)
	ListFoodsByDonor(ctx context.Context, email string) ([]store.FoodItem, error)
}

// Summary holds a donor's activity counts.
type Summary struct {
	Email         string           `json:"email"`
	TotalAdded    int64            `json:"total_added"`
	Available     int64            `json:"available"`
	Donated       int64            `json:"donated"`
	Delivered     int64            `json:"delivered"`
	Expired       int64            `json:"expired"`
	TotalRequests int64            `json:"total_requests"`
	RecentFoods   []store.FoodItem `json:"recent_foods"`
	Monthly       [12]int64        `json:"monthly"`
}

// Aggregator computes summaries from independent store reads.
type Aggregator struct {
	store Reader
}

// New creates an Aggregator.
func New(r Reader) *Aggregator {
	return &Aggregator{store: r}
}

// Summarize runs the reads concurrently. They are not a consistent snapshot.
func (a *Aggregator) Summarize(ctx context.Context, email string) (*Summary, error) {
	sum := &Summary{Email: email}
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int64, c store.FoodCount) {
		g.Go(func() error {
			n, err := a.store.CountFoods(ctx, c)
			if err != nil {
				return fmt.Errorf("counting %q foods: %w", c.Status, err)
			}
			*dst = n
			return nil
		})
	}
	count(&sum.TotalAdded, store.FoodCount{DonorEmail: email})
	count(&sum.Available, store.FoodCount{DonorEmail: email, Status: store.FoodAvailable})
	count(&sum.Donated, store.FoodCount{DonorEmail: email, Status: store.FoodDonated})
	count(&sum.Delivered, store.FoodCount{DonorEmail: email, Status: store.FoodDelivered})
	count(&sum.Expired, store.FoodCount{DonorEmail: email, Status: store.FoodExpired})

	g.Go(func() error {
		n, err := a.store.CountRequests(ctx, email)
		if err != nil {
			return fmt.Errorf("counting requests: %w", err)
		}
		sum.TotalRequests = n
		return nil
	})

	g.Go(func() error {
		recent, err := a.store.RecentFoodsByDonor(ctx, email, RecentLimit)
		if err != nil {
			return fmt.Errorf("loading recent foods: %w", err)
		}
		sum.RecentFoods = recent
		return nil
	})

	g.Go(func() error {
		all, err := a.store.ListFoodsByDonor(ctx, email)
		if err != nil {
			return fmt.Errorf("loading donor foods: %w", err)
		}
		sum.Monthly = MonthlyHistogram(all)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if sum.RecentFoods == nil {
		sum.RecentFoods = []store.FoodItem{}
	}
	return sum, nil
}

// MonthlyHistogram counts items by calendar month (UTC) of creation;
// index 0 is January.
func MonthlyHistogram(items []store.FoodItem) [12]int64 {
	var months [12]int64
	for _, it := range items {
		months[it.CreatedAt.UTC().Month()-1]++
	}
	return months
}
