package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

type entitlementService struct {
	users    ports.UserRepository
	identity ports.IdentityDirectory
	pending  ports.PendingPaymentRepository
	now      func() time.Time
	log      zerolog.Logger
}

// NewEntitlementService returns an EntitlementService implementation.
func NewEntitlementService(
	users ports.UserRepository,
	identity ports.IdentityDirectory,
	pending ports.PendingPaymentRepository,
	log zerolog.Logger,
) ports.EntitlementService {
	return &entitlementService{
		users:    users,
		identity: identity,
		pending:  pending,
		now:      time.Now,
		log:      log,
	}
}

// Reconcile applies a completed-checkout event to the entitlement state.
//
// Resolution order:
//  1. Known user id (buyer was logged in at checkout) — set premium directly.
//  2. Customer email — match an identity, activating or creating the user row.
//  3. Neither — log and acknowledge; there is nothing to reconcile against.
//
// A returned error means the entitlement was paid for but not granted, so the
// caller must answer non-2xx and let the provider redeliver.
func (s *entitlementService) Reconcile(ctx context.Context, checkout ports.CheckoutCompleted) (ports.ReconcileOutcome, error) {
	if checkout.UserID != "" {
		if err := s.users.SetPremium(ctx, checkout.UserID, true); err != nil {
			return "", fmt.Errorf("reconcile: activate user %s: %w", checkout.UserID, err)
		}
		s.log.Info().Str("user_id", checkout.UserID).Str("session_id", checkout.SessionID).Msg("premium granted")
		return ports.OutcomeActivated, nil
	}

	if checkout.Email != "" {
		return s.reconcileByEmail(ctx, checkout)
	}

	// Anomalous event: the session carries no buyer identity at all.
	s.log.Warn().Str("session_id", checkout.SessionID).Msg("checkout session has no user id or customer email")
	return ports.OutcomeUnmatched, nil
}

func (s *entitlementService) reconcileByEmail(ctx context.Context, checkout ports.CheckoutCompleted) (ports.ReconcileOutcome, error) {
	email := strings.ToLower(checkout.Email)

	ident, err := s.identity.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return s.activateIdentity(ctx, ident, checkout)

	case errors.Is(err, domain.ErrIdentityNotFound):
		// Payment precedes signup: record it and wait for the sweep.
		return s.deferPayment(ctx, email, checkout)

	default:
		// Infrastructure failure on lookup. The payment must not be lost, so
		// fall back to a pending row instead of failing the delivery.
		s.log.Error().Err(err).Str("session_id", checkout.SessionID).Msg("identity lookup failed, storing pending payment as fallback")
		return s.deferPayment(ctx, email, checkout)
	}
}

// activateIdentity grants premium to a matched identity, creating the
// application user row when the identity has none yet.
func (s *entitlementService) activateIdentity(ctx context.Context, ident *domain.IdentityUser, checkout ports.CheckoutCompleted) (ports.ReconcileOutcome, error) {
	_, err := s.users.FindByID(ctx, ident.ID)
	switch {
	case err == nil:
		if err := s.users.SetPremium(ctx, ident.ID, true); err != nil {
			return "", fmt.Errorf("reconcile: activate matched user %s: %w", ident.ID, err)
		}
		s.log.Info().Str("user_id", ident.ID).Str("session_id", checkout.SessionID).Msg("premium granted to existing user matched by email")
		return ports.OutcomeActivated, nil

	case errors.Is(err, domain.ErrUserNotFound):
		now := s.now().UTC()
		user := &domain.User{
			ID:        ident.ID,
			Email:     ident.Email,
			IsPremium: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return "", fmt.Errorf("reconcile: create user %s: %w", ident.ID, err)
		}
		s.log.Info().Str("user_id", ident.ID).Str("session_id", checkout.SessionID).Msg("user record created with premium")
		return ports.OutcomeUserCreated, nil

	default:
		return "", fmt.Errorf("reconcile: load user %s: %w", ident.ID, err)
	}
}

func (s *entitlementService) deferPayment(ctx context.Context, email string, checkout ports.CheckoutCompleted) (ports.ReconcileOutcome, error) {
	p := &domain.PendingPremiumPayment{
		Email:            email,
		StripeSessionID:  checkout.SessionID,
		StripeCustomerID: checkout.CustomerID,
		CreatedAt:        s.now().UTC(),
	}
	err := s.pending.Create(ctx, p)
	if errors.Is(err, domain.ErrDuplicatePayment) {
		// Redelivered event; the original row is still the promise of record.
		s.log.Debug().Str("session_id", checkout.SessionID).Msg("pending payment already recorded")
		return ports.OutcomeAlreadyRecorded, nil
	}
	if err != nil {
		return "", fmt.Errorf("reconcile: store pending payment: %w", err)
	}
	s.log.Info().Str("email", email).Str("session_id", checkout.SessionID).Msg("pending premium payment stored")
	return ports.OutcomeDeferred, nil
}

// ActivatePending sweeps unprocessed pending payments for the given email and
// grants premium when any exist. Premium activation is the user-visible
// contract: once the flag is set, failure to mark the rows processed is
// logged but not surfaced — the rows stay eligible for a later sweep, which
// is idempotent.
func (s *entitlementService) ActivatePending(ctx context.Context, userID, email string) (bool, error) {
	rows, err := s.pending.FindUnprocessedByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return false, fmt.Errorf("activate pending: lookup payments: %w", err)
	}
	if len(rows) == 0 {
		return false, nil
	}

	if err := s.users.SetPremium(ctx, userID, true); err != nil {
		return false, fmt.Errorf("activate pending: set premium for %s: %w", userID, err)
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	if err := s.pending.MarkProcessed(ctx, ids, s.now().UTC()); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Int("rows", len(ids)).Msg("failed to mark pending payments processed")
	}

	s.log.Info().Str("user_id", userID).Int("payments", len(rows)).Msg("premium activated from pending payments")
	return true, nil
}
