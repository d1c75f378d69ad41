package ports

import (
	"context"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
)

// CheckoutService starts the one-time premium purchase flow.
type CheckoutService interface {
	CreateSession(ctx context.Context, in CreateCheckoutInput) (*domain.CheckoutSession, error)
}
