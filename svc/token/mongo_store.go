package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultCollection holds tokens in MongoDB.
const DefaultCollection = "tokens"

// MongoStore keeps tokens in a collection with a TTL index on expires.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

type MongoOption func(*MongoStore)

// WithMongoClock replaces time.Now for the read-time expiry filter.
func WithMongoClock(now func() time.Time) MongoOption {
	return func(s *MongoStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMongoStore(db *mongo.Database, opts ...MongoOption) *MongoStore {
	s := &MongoStore{coll: db.Collection(DefaultCollection), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureIndexes creates the TTL index on expires and the index on userId.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create token indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) StoreAccessToken(ctx context.Context, token, clientID string, expires time.Time, userID string) error {
	if err := validateInput(token, clientID); err != nil {
		return err
	}

	doc := AccessToken{Token: token, ClientID: clientID, UserID: userID, Expires: expires.UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: token}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	return nil
}

func (s *MongoStore) GetAccessToken(ctx context.Context, token string) (*AccessToken, error) {
	filter := bson.D{
		{Key: "_id", Value: token},
		{Key: "expires", Value: bson.D{{Key: "$gt", Value: s.now().UTC()}}},
	}

	var t AccessToken
	err := s.coll.FindOne(ctx, filter).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}
	return &t, nil
}

func (s *MongoStore) RevokeToken(ctx context.Context, token string) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: token}})
	if err != nil {
		return 0, fmt.Errorf("revoke access token: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) ClearAccessTokensForUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{{Key: "userId", Value: userID}})
	if err != nil {
		return 0, fmt.Errorf("clear access tokens: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
