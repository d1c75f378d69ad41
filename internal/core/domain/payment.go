package domain

import (
	"errors"
	"time"
)

var ErrDuplicatePayment = errors.New("payment already recorded")

// PendingPremiumPayment records a successful payment that could not be
// attributed to any existing account: payment preceded signup. The row is an
// unresolved entitlement promise until a user with a matching email logs in
// and the sweep marks it processed.
//
// Email is always stored lowercased so the sweep can match exactly.
type PendingPremiumPayment struct {
	ID               string     `json:"id" bson:"_id,omitempty"`
	Email            string     `json:"email" bson:"email"`
	StripeSessionID  string     `json:"stripe_session_id" bson:"stripe_session_id"`
	StripeCustomerID string     `json:"stripe_customer_id,omitempty" bson:"stripe_customer_id,omitempty"`
	IsProcessed      bool       `json:"is_processed" bson:"is_processed"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
}

// CheckoutSession is the provider-hosted payment page handed back to the
// browser: the caller redirects to URL and the provider reports the result
// via webhook.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
