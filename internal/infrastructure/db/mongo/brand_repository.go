package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

const brandCollection = "brands"

// BrandRepository implements ports.BrandRepository.
type BrandRepository struct {
	coll *mongo.Collection
}

func NewBrandRepository(db *mongo.Database) ports.BrandRepository {
	return &BrandRepository{coll: db.Collection(brandCollection)}
}

type brandDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Category   string             `bson:"category"`
	WebsiteURL string             `bson:"website_url"`
	IsActive   bool               `bson:"is_active"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d brandDoc) toDomain() *domain.Brand {
	return &domain.Brand{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Category:   d.Category,
		WebsiteURL: d.WebsiteURL,
		IsActive:   d.IsActive,
		CreatedAt:  d.CreatedAt,
	}
}

func (r *BrandRepository) ListActive(ctx context.Context, category string) ([]*domain.Brand, error) {
	filter := bson.M{"is_active": true}
	if category != "" {
		filter["category"] = category
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer cur.Close(ctx)

	return decodeBrands(ctx, cur)
}

func (r *BrandRepository) ListCategories(ctx context.Context) ([]string, error) {
	raw, err := r.coll.Distinct(ctx, "category", bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	cats := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			cats = append(cats, s)
		}
	}
	return cats, nil
}

func (r *BrandRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	opts := options.Count().SetCollation(caseInsensitive).SetLimit(1)
	n, err := r.coll.CountDocuments(ctx, bson.M{"name": name}, opts)
	if err != nil {
		return false, fmt.Errorf("brand exists: %w", err)
	}
	return n > 0, nil
}

func (r *BrandRepository) Insert(ctx context.Context, brand *domain.Brand) error {
	doc := brandDoc{
		Name:       brand.Name,
		Category:   brand.Category,
		WebsiteURL: brand.WebsiteURL,
		IsActive:   brand.IsActive,
		CreatedAt:  brand.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateBrand
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		brand.ID = oid.Hex()
	}
	return nil
}

// ListWithoutContacts joins against the contacts collection and keeps active
// brands that have a website but no contact rows yet.
func (r *BrandRepository) ListWithoutContacts(ctx context.Context) ([]*domain.Brand, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"is_active":   true,
			"website_url": bson.M{"$nin": bson.A{"", nil}},
		}}},
		{{Key: "$addFields", Value: bson.M{"id_hex": bson.M{"$toString": "$_id"}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         contactCollection,
			"localField":   "id_hex",
			"foreignField": "brand_id",
			"as":           "contacts",
		}}},
		{{Key: "$match", Value: bson.M{"contacts": bson.M{"$size": 0}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list brands without contacts: %w", err)
	}
	defer cur.Close(ctx)

	return decodeBrands(ctx, cur)
}

func decodeBrands(ctx context.Context, cur *mongo.Cursor) ([]*domain.Brand, error) {
	var out []*domain.Brand
	for cur.Next(ctx) {
		var doc brandDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode brand: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w", err)
	}
	return out, nil
}
