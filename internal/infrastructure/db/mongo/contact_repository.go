package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

const contactCollection = "contacts"

// ContactRepository implements ports.ContactRepository.
type ContactRepository struct {
	coll *mongo.Collection
}

func NewContactRepository(db *mongo.Database) ports.ContactRepository {
	return &ContactRepository{coll: db.Collection(contactCollection)}
}

type contactDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	BrandID string             `bson:"brand_id"`
	Email   string             `bson:"email"`
	Name    string             `bson:"name,omitempty"`
	Role    string             `bson:"role,omitempty"`
}

func (r *ContactRepository) FindByBrandIDs(ctx context.Context, brandIDs []string) ([]*domain.Contact, error) {
	if len(brandIDs) == 0 {
		return nil, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"brand_id": bson.M{"$in": brandIDs}})
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Contact
	for cur.Next(ctx) {
		var doc contactDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		out = append(out, &domain.Contact{
			ID:      doc.ID.Hex(),
			BrandID: doc.BrandID,
			Email:   doc.Email,
			Name:    doc.Name,
			Role:    doc.Role,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}

func (r *ContactRepository) Insert(ctx context.Context, contact *domain.Contact) error {
	doc := contactDoc{
		BrandID: contact.BrandID,
		Email:   contact.Email,
		Name:    contact.Name,
		Role:    contact.Role,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		contact.ID = oid.Hex()
	}
	return nil
}
