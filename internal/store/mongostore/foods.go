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

// ListAvailableFoods returns one page of available foods and the total match count.
func (s *Store) ListAvailableFoods(ctx context.Context, q store.ListingQuery) ([]store.FoodItem, int64, error) {
	filter := listingFilter(q)

	total, err := s.foods.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting foods: %w", err)
	}

	foods, err := s.findFoods(ctx, filter, listingOptions(q))
	if err != nil {
		return nil, 0, err
	}
	return foods, total, nil
}

// GetFood retrieves a food item by id.
func (s *Store) GetFood(ctx context.Context, id string) (*store.FoodItem, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}

	var item store.FoodItem
	err = s.foods.FindOne(ctx, bson.M{"_id": oid}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting food: %w", err)
	}
	return &item, nil
}

// ListFoodsByDonor returns every item posted by email, newest first.
func (s *Store) ListFoodsByDonor(ctx context.Context, email string) ([]store.FoodItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.findFoods(ctx, bson.M{"donators_email": email}, opts)
}

// RecentFoodsByDonor returns the n most recently created items of a donor.
func (s *Store) RecentFoodsByDonor(ctx context.Context, email string, n int) ([]store.FoodItem, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(n))
	return s.findFoods(ctx, bson.M{"donators_email": email}, opts)
}

// HighestFoods returns the n items with the largest quantity.
func (s *Store) HighestFoods(ctx context.Context, n int) ([]store.FoodItem, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "food_quantity", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(n))
	return s.findFoods(ctx, bson.M{}, opts)
}

// CreateFood inserts a new item into the foods collection.
func (s *Store) CreateFood(ctx context.Context, item *store.FoodItem) error {
	return insertFood(ctx, s.foods, item)
}

// CreateSecondaryFood inserts a new item into the food collection.
func (s *Store) CreateSecondaryFood(ctx context.Context, item *store.FoodItem) error {
	return insertFood(ctx, s.food, item)
}

func insertFood(ctx context.Context, coll *mongo.Collection, item *store.FoodItem) error {
	item.ID = primitive.NewObjectID()
	if _, err := coll.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("creating food in %s: %w", coll.Name(), err)
	}
	return nil
}

// UpdateFood applies a partial update and returns the updated item.
func (s *Store) UpdateFood(ctx context.Context, id string, u store.FoodUpdate) (*store.FoodItem, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item store.FoodItem
	err = s.foods.FindOneAndUpdate(ctx, bson.M{"_id": oid}, updateDocument(u), opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating food: %w", err)
	}
	return &item, nil
}

// DeleteFood deletes a food item by id.
func (s *Store) DeleteFood(ctx context.Context, id string) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}

	res, err := s.foods.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting food: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CountFoods counts items matching c.
func (s *Store) CountFoods(ctx context.Context, c store.FoodCount) (int64, error) {
	n, err := s.foods.CountDocuments(ctx, countFilter(c))
	if err != nil {
		return 0, fmt.Errorf("counting foods: %w", err)
	}
	return n, nil
}

func (s *Store) findFoods(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]store.FoodItem, error) {
	cur, err := s.foods.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing foods: %w", err)
	}

	foods := []store.FoodItem{}
	if err := cur.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("decoding foods: %w", err)
	}
	return foods, nil
}
