package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

const pendingCollection = "pending_premium_payments"

// PendingPaymentRepository implements ports.PendingPaymentRepository.
type PendingPaymentRepository struct {
	coll *mongo.Collection
}

func NewPendingPaymentRepository(db *mongo.Database) ports.PendingPaymentRepository {
	return &PendingPaymentRepository{coll: db.Collection(pendingCollection)}
}

type pendingDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Email            string             `bson:"email"`
	StripeSessionID  string             `bson:"stripe_session_id"`
	StripeCustomerID string             `bson:"stripe_customer_id,omitempty"`
	IsProcessed      bool               `bson:"is_processed"`
	ProcessedAt      *time.Time         `bson:"processed_at,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
}

func (r *PendingPaymentRepository) Create(ctx context.Context, p *domain.PendingPremiumPayment) error {
	doc := pendingDoc{
		Email:            p.Email,
		StripeSessionID:  p.StripeSessionID,
		StripeCustomerID: p.StripeCustomerID,
		IsProcessed:      false,
		CreatedAt:        p.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		// Unique index on stripe_session_id: redelivered events land here.
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicatePayment
		}
		return fmt.Errorf("insert pending payment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *PendingPaymentRepository) FindUnprocessedByEmail(ctx context.Context, email string) ([]*domain.PendingPremiumPayment, error) {
	cur, err := r.coll.Find(ctx, bson.M{"email": email, "is_processed": false})
	if err != nil {
		return nil, fmt.Errorf("find pending payments: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.PendingPremiumPayment
	for cur.Next(ctx) {
		var doc pendingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode pending payment: %w", err)
		}
		out = append(out, &domain.PendingPremiumPayment{
			ID:               doc.ID.Hex(),
			Email:            doc.Email,
			StripeSessionID:  doc.StripeSessionID,
			StripeCustomerID: doc.StripeCustomerID,
			IsProcessed:      doc.IsProcessed,
			ProcessedAt:      doc.ProcessedAt,
			CreatedAt:        doc.CreatedAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending payments: %w", err)
	}
	return out, nil
}

func (r *PendingPaymentRepository) MarkProcessed(ctx context.Context, ids []string, at time.Time) error {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return fmt.Errorf("mark processed: bad id %q: %w", id, err)
		}
		oids = append(oids, oid)
	}

	_, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": oids}},
		bson.M{"$set": bson.M{"is_processed": true, "processed_at": at.UTC()}},
	)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}
