package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

const identityCollection = "identity_users"

// IdentityRepository implements ports.IdentityDirectory over the identity
// provider's synced user directory. The collection is owned and written by
// the provider; this service only reads it.
type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) ports.IdentityDirectory {
	return &IdentityRepository{coll: db.Collection(identityCollection)}
}

type identityDoc struct {
	ID    string `bson:"_id"`
	Email string `bson:"email"`
}

// FindByEmail matches case-insensitively via collation, so the stored casing
// of the signup email never matters.
func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.IdentityUser, error) {
	opts := options.FindOne().SetCollation(caseInsensitive)

	var doc identityDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &domain.IdentityUser{ID: doc.ID, Email: doc.Email}, nil
}
