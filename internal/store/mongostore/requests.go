package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foodshare/foodshare/internal/store"
)

// CreateRequest inserts a new food request.
func (s *Store) CreateRequest(ctx context.Context, req *store.FoodRequest) error {
	req.ID = primitive.NewObjectID()
	if _, err := s.requests.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return nil
}

// RequestsByFood returns every request referencing foodID.
func (s *Store) RequestsByFood(ctx context.Context, foodID string) ([]store.FoodRequest, error) {
	return s.findRequests(ctx, bson.M{"food_id": foodID})
}

// RequestsByRequester returns every request made by email.
func (s *Store) RequestsByRequester(ctx context.Context, email string) ([]store.FoodRequest, error) {
	return s.findRequests(ctx, bson.M{"requester_email": email})
}

// SearchRequests matches q across requester name, email, pickup location and status.
func (s *Store) SearchRequests(ctx context.Context, q string) ([]store.FoodRequest, error) {
	return s.findRequests(ctx, requestSearchFilter(q))
}

// CountRequests counts requests made by requesterEmail.
func (s *Store) CountRequests(ctx context.Context, requesterEmail string) (int64, error) {
	n, err := s.requests.CountDocuments(ctx, bson.M{"requester_email": requesterEmail})
	if err != nil {
		return 0, fmt.Errorf("counting requests: %w", err)
	}
	return n, nil
}

// SetRequestStatus overwrites the status of a request.
func (s *Store) SetRequestStatus(ctx context.Context, id string, status store.RequestStatus) (*store.FoodRequest, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	return setRequestStatus(ctx, s.requests, oid, status)
}

// AcceptRequest marks the request accepted and its food item donated in one transaction.
func (s *Store) AcceptRequest(ctx context.Context, id string) (*store.FoodRequest, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}

	res, err := s.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		req, err := setRequestStatus(sc, s.requests, oid, store.RequestAccepted)
		if err != nil {
			return nil, err
		}

		foodID, err := primitive.ObjectIDFromHex(req.FoodID)
		if err != nil {
			return nil, fmt.Errorf("request references food %q: %w", req.FoodID, store.ErrNotFound)
		}

		upd, err := s.foods.UpdateOne(sc,
			bson.M{"_id": foodID},
			bson.M{"$set": bson.M{"food_status": store.FoodDonated}},
		)
		if err != nil {
			return nil, fmt.Errorf("marking food donated: %w", err)
		}
		if upd.MatchedCount == 0 {
			return nil, fmt.Errorf("request references food %q: %w", req.FoodID, store.ErrNotFound)
		}
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*store.FoodRequest), nil
}

func setRequestStatus(ctx context.Context, coll *mongo.Collection, oid primitive.ObjectID, status store.RequestStatus) (*store.FoodRequest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var req store.FoodRequest
	err := coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating request status: %w", err)
	}
	return &req, nil
}

func (s *Store) findRequests(ctx context.Context, filter bson.M) ([]store.FoodRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: -1}})
	cur, err := s.requests.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}

	reqs := []store.FoodRequest{}
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("decoding requests: %w", err)
	}
	return reqs, nil
}
