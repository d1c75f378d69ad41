package ports

import (
	"context"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
)

// CreateCheckoutInput carries the optional buyer identity for a checkout
// session. Both fields may be empty: anonymous buyers are reconciled later
// by email, or deferred entirely.
type CreateCheckoutInput struct {
	UserID string
	Email  string
}

// CheckoutProvider creates hosted payment sessions with the payment provider.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, in CreateCheckoutInput) (*domain.CheckoutSession, error)
}

// CheckoutCompleted is the reconciliation-relevant payload of a completed
// checkout event. UserID comes from session metadata and is set only when the
// buyer was authenticated at checkout time; Email is the provider-reported
// customer email. Either may be empty.
type CheckoutCompleted struct {
	SessionID  string
	CustomerID string
	UserID     string
	Email      string
}

// WebhookEvent is a verified inbound event from the payment provider.
// Checkout is non-nil only for completed-checkout events; all other types are
// acknowledged without action.
type WebhookEvent struct {
	ID       string
	Type     string
	Checkout *CheckoutCompleted
}

// WebhookVerifier authenticates a raw webhook delivery. Verification runs on
// the exact request bytes, never a re-serialized form.
type WebhookVerifier interface {
	VerifyAndParse(payload []byte, signature string) (*WebhookEvent, error)
}
