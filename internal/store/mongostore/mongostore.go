// Package mongostore implements store.Store on MongoDB.
package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/foodshare/foodshare/internal/store"
)

// Collection names.
const (
	foodsCollection     = "foods"
	secondaryCollection = "food"
	requestsCollection  = "food-request"
	usersCollection     = "users"
)

// Store wraps a Mongo client and the donation database.
type Store struct {
	client   *mongo.Client
	foods    *mongo.Collection
	food     *mongo.Collection
	requests *mongo.Collection
	users    *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// New connects to MongoDB and verifies the connection.
func New(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		foods:    db.Collection(foodsCollection),
		food:     db.Collection(secondaryCollection),
		requests: db.Collection(requestsCollection),
		users:    db.Collection(usersCollection),
	}

	if _, err := s.users.Indexes().CreateOne(ctx, usersEmailIndex()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("creating users email index: %w", err)
	}
	return s, nil
}

// usersEmailIndex makes email the unique key of the users collection.
func usersEmailIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	}
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// withTransaction runs fn inside a multi-document transaction.
// Requires a replica set or sharded cluster.
func (s *Store) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	sess, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	defer sess.EndSession(ctx)

	return sess.WithTransaction(ctx, fn)
}
