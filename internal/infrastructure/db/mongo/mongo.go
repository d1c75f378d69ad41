package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// caseInsensitive is the collation used wherever emails or brand names are
// compared: strength 2 ignores case and diacritics but not characters.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// EnsureIndexes creates the indexes the service relies on. Idempotent; called
// once at startup.
//
// The unique index on pending_premium_payments.stripe_session_id is what
// makes webhook redelivery safe: a replayed checkout.session.completed event
// cannot create a second unprocessed row.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(pendingCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "stripe_session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "is_processed", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("mongo indexes: %s: %w", pendingCollection, err)
	}

	_, err = db.Collection(brandCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
	})
	if err != nil {
		return fmt.Errorf("mongo indexes: %s: %w", brandCollection, err)
	}

	_, err = db.Collection(contactCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "brand_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo indexes: %s: %w", contactCollection, err)
	}

	return nil
}
