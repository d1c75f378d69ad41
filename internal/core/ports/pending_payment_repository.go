package ports

import (
	"context"
	"time"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
)

// PendingPaymentRepository defines persistence operations for payments that
// arrived before the buyer had an account.
type PendingPaymentRepository interface {
	// Create inserts a new pending payment. Returns
	// domain.ErrDuplicatePayment when a row with the same checkout session
	// id already exists (webhook redelivery).
	Create(ctx context.Context, p *domain.PendingPremiumPayment) error
	// FindUnprocessedByEmail returns all unprocessed rows whose email
	// matches the given one. The caller passes a lowercased email; rows are
	// stored lowercased, so the comparison is effectively case-insensitive.
	FindUnprocessedByEmail(ctx context.Context, email string) ([]*domain.PendingPremiumPayment, error)
	// MarkProcessed flags the given rows processed with the given timestamp.
	MarkProcessed(ctx context.Context, ids []string, at time.Time) error
}
