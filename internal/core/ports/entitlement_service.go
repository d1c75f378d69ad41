package ports

import "context"

// ReconcileOutcome describes how a completed-checkout event was resolved.
type ReconcileOutcome string

const (
	// OutcomeActivated: an existing user's premium flag was set.
	OutcomeActivated ReconcileOutcome = "activated"
	// OutcomeUserCreated: the identity existed but had no application user
	// row; one was created with premium already set.
	OutcomeUserCreated ReconcileOutcome = "user_created"
	// OutcomeDeferred: no matching account; a pending payment row was
	// recorded for a later sweep.
	OutcomeDeferred ReconcileOutcome = "deferred"
	// OutcomeAlreadyRecorded: a pending row for this checkout session
	// already exists (webhook redelivery).
	OutcomeAlreadyRecorded ReconcileOutcome = "already_recorded"
	// OutcomeUnmatched: the event carried neither user id nor email; nothing
	// to reconcile.
	OutcomeUnmatched ReconcileOutcome = "unmatched"
)

// EntitlementService reconciles payment events into premium entitlement.
type EntitlementService interface {
	// Reconcile applies a verified completed-checkout event. A returned
	// error means the primary entitlement write failed and the delivery
	// should be retried by the provider.
	Reconcile(ctx context.Context, checkout CheckoutCompleted) (ReconcileOutcome, error)
	// ActivatePending sweeps unprocessed pending payments matching the
	// user's email and grants premium when any exist. The boolean reports
	// whether an activation happened.
	ActivatePending(ctx context.Context, userID, email string) (bool, error)
}
