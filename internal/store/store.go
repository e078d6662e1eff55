// Package store defines the donation data model and the Store interface
// implemented by the document-store drivers.
package store

import (
	"context"
	"errors"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is returned when an identifier is not a valid ObjectID.
	ErrInvalidID = errors.New("invalid id")
)

// Sortable listing fields.
var SortFields = map[string]bool{
	"expire_date":   true,
	"food_quantity": true,
	"created_at":    true,
	"food_name":     true,
}

// ListingQuery selects available food items for the public listing.
type ListingQuery struct {
	Search    string // case-insensitive substring of food_name
	Location  string // case-insensitive substring of pickup_location
	SortField string
	SortDesc  bool
	Page      int
	Limit     int
	Paginate  bool
}

// Skip returns how many matching items precede the requested page.
func (q ListingQuery) Skip() int {
	if !q.Paginate || q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// FoodCount narrows a food count. Empty fields match everything.
type FoodCount struct {
	DonorEmail string
	Status     FoodStatus
}

// Store is the data access layer over the foods, food-request, food and
// users collections. Implementations must be safe for concurrent use.
type Store interface {
	// ListAvailableFoods returns the requested page and the total number of
	// matches ignoring pagination.
	ListAvailableFoods(ctx context.Context, q ListingQuery) ([]FoodItem, int64, error)
	GetFood(ctx context.Context, id string) (*FoodItem, error)
	ListFoodsByDonor(ctx context.Context, email string) ([]FoodItem, error)
	RecentFoodsByDonor(ctx context.Context, email string, n int) ([]FoodItem, error)
	HighestFoods(ctx context.Context, n int) ([]FoodItem, error)
	CreateFood(ctx context.Context, item *FoodItem) error
	// CreateSecondaryFood inserts into the secondary "food" collection.
	CreateSecondaryFood(ctx context.Context, item *FoodItem) error
	UpdateFood(ctx context.Context, id string, u FoodUpdate) (*FoodItem, error)
	DeleteFood(ctx context.Context, id string) error
	CountFoods(ctx context.Context, c FoodCount) (int64, error)

	CreateRequest(ctx context.Context, req *FoodRequest) error
	RequestsByFood(ctx context.Context, foodID string) ([]FoodRequest, error)
	RequestsByRequester(ctx context.Context, email string) ([]FoodRequest, error)
	SearchRequests(ctx context.Context, q string) ([]FoodRequest, error)
	CountRequests(ctx context.Context, requesterEmail string) (int64, error)
	SetRequestStatus(ctx context.Context, id string, status RequestStatus) (*FoodRequest, error)
	// AcceptRequest marks the request accepted and its food item donated as
	// one atomic change.
	AcceptRequest(ctx context.Context, id string) (*FoodRequest, error)

	// CreateUserIfAbsent inserts u unless a user with the same email exists.
	// It reports whether a record was created.
	CreateUserIfAbsent(ctx context.Context, u *User) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetUserRole(ctx context.Context, id, role string) (*User, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ParseID converts a hex identifier into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
