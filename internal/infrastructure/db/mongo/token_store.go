package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedbackhub/portal/internal/core/ports"
)

const collectionBrowserTokens = "browser_tokens"

// TokenStore keeps bearer tokens in a MongoDB collection, one document
// per browser id.
type TokenStore struct {
	col *mongo.Collection
	ttl time.Duration
}

var _ ports.TokenStore = (*TokenStore)(nil)

type tokenDocument struct {
	BrowserID string    `bson:"browser_id"`
	Token     string    `bson:"token"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewTokenStore(db *mongo.Database, ttl time.Duration) *TokenStore {
	return &TokenStore{col: db.Collection(collectionBrowserTokens), ttl: ttl}
}

func (s *TokenStore) Get(ctx context.Context, browserID string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tokenDocument
	err := s.col.FindOne(ctx, bson.M{"browser_id": browserID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find token: %w", err)
	}
	if doc.Token == "" {
		return "", false, nil
	}
	// The TTL monitor runs once a minute; never hand out an expired token.
	if s.ttl > 0 && time.Since(doc.UpdatedAt) > s.ttl {
		return "", false, nil
	}
	return doc.Token, true, nil
}

func (s *TokenStore) Set(ctx context.Context, browserID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"browser_id": browserID}
	update := bson.M{"$set": tokenDocument{
		BrowserID: browserID,
		Token:     token,
		UpdatedAt: time.Now().UTC(),
	}}
	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context, browserID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.DeleteOne(ctx, bson.M{"browser_id": browserID}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (s *TokenStore) Ping(ctx context.Context) error {
	return s.col.Database().Client().Ping(ctx, nil)
}

// EnsureIndexes creates the unique browser_id index and, when a ttl is
// configured, the expiry index on updated_at.
func (s *TokenStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "browser_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if s.ttl > 0 {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(s.ttl.Seconds())),
		})
	}

	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}
