package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	findErr   error
	createErr error
	setErr    error
	created   []*domain.User
	premium   []string // user ids passed to SetPremium
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[u.ID] = u
	r.created = append(r.created, u)
	return nil
}

func (r *stubUserRepo) SetPremium(_ context.Context, id string, premium bool) error {
	if r.setErr != nil {
		return r.setErr
	}
	if u, ok := r.byID[id]; ok {
		u.IsPremium = premium
	}
	r.premium = append(r.premium, id)
	return nil
}

type stubIdentityDir struct {
	byEmail map[string]*domain.IdentityUser // keyed by lowercased email
	err     error
	queries []string
}

func newStubIdentityDir() *stubIdentityDir {
	return &stubIdentityDir{byEmail: make(map[string]*domain.IdentityUser)}
}

func (d *stubIdentityDir) FindByEmail(_ context.Context, email string) (*domain.IdentityUser, error) {
	d.queries = append(d.queries, email)
	if d.err != nil {
		return nil, d.err
	}
	u, ok := d.byEmail[email]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return u, nil
}

type stubPendingRepo struct {
	createErr error
	findErr   error
	markErr   error
	rows      []*domain.PendingPremiumPayment
	inserted  []*domain.PendingPremiumPayment
	marked    []string
	markedAt  time.Time
}

func (r *stubPendingRepo) Create(_ context.Context, p *domain.PendingPremiumPayment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.inserted = append(r.inserted, p)
	return nil
}

func (r *stubPendingRepo) FindUnprocessedByEmail(_ context.Context, email string) ([]*domain.PendingPremiumPayment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*domain.PendingPremiumPayment
	for _, row := range r.rows {
		if row.Email == email && !row.IsProcessed {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubPendingRepo) MarkProcessed(_ context.Context, ids []string, at time.Time) error {
	if r.markErr != nil {
		return r.markErr
	}
	r.marked = append(r.marked, ids...)
	r.markedAt = at
	return nil
}

func newEntitlementSvc(users *stubUserRepo, identity *stubIdentityDir, pending *stubPendingRepo) ports.EntitlementService {
	return NewEntitlementService(users, identity, pending, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Reconcile
// ---------------------------------------------------------------------------

func TestReconcile_KnownUserID(t *testing.T) {
	users := newStubUserRepo()
	users.byID["u1"] = &domain.User{ID: "u1", Email: "buyer@x.com"}
	pending := &stubPendingRepo{}

	svc := newEntitlementSvc(users, newStubIdentityDir(), pending)
	outcome, err := svc.Reconcile(context.Background(), ports.CheckoutCompleted{
		SessionID: "cs_1",
		UserID:    "u1",
		Email:     "buyer@x.com",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != ports.OutcomeActivated {
		t.Errorf("expected activated, got %q", outcome)
	}
	if !users.byID["u1"].IsPremium {
		t.Error("expected premium flag set")
	}
	if len(pending.inserted) != 0 {
		t.Error("expected no pending row for a known user")
	}
}

func TestReconcile_KnownUserID_UpdateFailureIsFatal(t *testing.T) {
	users := newStubUserRepo()
	users.setErr = errors.New("db unavailable")

	svc := newEntitlementSvc(users, newStubIdentityDir(), &stubPendingRepo{})
	_, err := svc.Reconcile(context.Background(), ports.CheckoutCompleted{
		SessionID: "cs_1",
		UserID:    "u1",
	})

	if err == nil {
		t.Fatal("expected error so the provider retries delivery")
	}
}

func TestReconcile_EmailMatch_CaseInsensitive(t *testing.T) {
	users := newStubUserRepo()
	users.byID["u2"] = &domain.User{ID: "u2", Email: "user@x.com"}
	identity := newStubIdentityDir()
	identity.byEmail["user@x.com"] = &domain.IdentityUser{ID: "u2", Email: "user@x.com"}

	svc := newEntitlementSvc(users, identity, &stubPendingRepo{})
	outcome, err := svc.Reconcile(context.Background(), ports.CheckoutCompleted{
		SessionID: "cs_2",
		Email:     "User@X.com",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != ports.OutcomeActivated {
		t.Errorf("expected activated, got %q", outcome)
	}
	if !users.byID["u2"].IsPremium {
		t.Error("expected premium flag set on matched user")
	}
	if len(identity.queries) != 1 || identity.queries[0] != "user@x.com" {
		t.Errorf("expected lowercased lookup, got %v", identity.queries)
	}
}

func TestReconcile_IdentityWithoutUserRow_CreatesPremiumUser(t *testing.T) {
	users := newStubUserRepo()
	identity := newStubIdentityDir()
	identity.byEmail["new@x.com"] = &domain.IdentityUser{ID: "u3", Email: "new@x.com"}

	svc := newEntitlementSvc(users, identity, &stubPendingRepo{})
	outcome, err := svc.Reconcile(context.Background(), ports.CheckoutCompleted{
		SessionID: "cs_3",
		Email:     "new@x.com",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != ports.OutcomeUserCreated {
		t.Errorf("expected user_created, got %q", outcome)
	}
	if len(users.created) != 1 {
		t.Fatal("expected a user row to be created")
	}
	if !users.created[0].IsPremium {
		t.Error("expected created user to be premium immediately")
	}
}

func TestReconcile_NoMatchingAccount_DefersPayment(t *testing.T) {
	pending := &stubPendingRepo{}

	svc := newEntitlementSvc(newStubUserRepo(), newStubIdentityDir(), pending)
	outcome, err := svc.Reconcile(context.Background(), ports.CheckoutCompleted{
		SessionID:  "cs_4",
		CustomerID: "cus_9",
		Email:      "Stranger@X.com",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != ports.OutcomeDeferred {
		t.Errorf("expected deferred, got %q", outcome)
	}
	if len(pending.inserted) != 1 {
		t.Fatal("expected a pending payment row")
	}
	row := pending.inserted[0]
	if row.Email != "stranger@x.com" {
		t.Errorf("expected lowercased email, got %q", row.Email)
	}
	if row.StripeSessionID != "cs_4" || row.StripeCustomerID != "cus_9" {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.IsProcessed {
		t.Error("expected new row to be unprocessed")
	}
}

func TestReconcile_IdentityLookupFailure_FallsBackToPending(t *testing.T) {
	identity := newStubIdentityDir()
	identity.err = errors.New("directory timeout")
	pending := &stubPendingRepo{}

	svc := newEntitlementSvc(newStubUserRepo(), identity, pending)
	outcome, err := svc.Reconcile(context.Background(), ports.CheckoutCompleted{
		SessionID: "cs_5",
		Email:     "buyer@x.com",
	})

	// The payment must not be lost when the lookup infrastructure fails.
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if outcome != ports.OutcomeDeferred {
		t.Errorf("expected deferred, got %q", outcome)
	}
	if len(pending.inserted) != 1 {
		t.Error("expected fallback pending row")
	}
}

func TestReconcile_DuplicateSession_AcknowledgedOnce(t *testing.T) {
	pending := &stubPendingRepo{createErr: domain.ErrDuplicatePayment}

	svc := newEntitlementSvc(newStubUserRepo(), newStubIdentityDir(), pending)
	outcome, err := svc.Reconcile(context.Background(), ports.CheckoutCompleted{
		SessionID: "cs_6",
		Email:     "buyer@x.com",
	})

	if err != nil {
		t.Fatalf("redelivery must not fail: %v", err)
	}
	if outcome != ports.OutcomeAlreadyRecorded {
		t.Errorf("expected already_recorded, got %q", outcome)
	}
}

func TestReconcile_PendingInsertFailure_IsFatal(t *testing.T) {
	pending := &stubPendingRepo{createErr: errors.New("db unavailable")}

	svc := newEntitlementSvc(newStubUserRepo(), newStubIdentityDir(), pending)
	_, err := svc.Reconcile(context.Background(), ports.CheckoutCompleted{
		SessionID: "cs_7",
		Email:     "buyer@x.com",
	})

	if err == nil {
		t.Fatal("expected error so the provider retries delivery")
	}
}

func TestReconcile_NoIdentityOnEvent_Unmatched(t *testing.T) {
	users := newStubUserRepo()
	pending := &stubPendingRepo{}

	svc := newEntitlementSvc(users, newStubIdentityDir(), pending)
	outcome, err := svc.Reconcile(context.Background(), ports.CheckoutCompleted{SessionID: "cs_8"})

	if err != nil {
		t.Fatalf("anomalous event must be acknowledged, got: %v", err)
	}
	if outcome != ports.OutcomeUnmatched {
		t.Errorf("expected unmatched, got %q", outcome)
	}
	if len(users.premium) != 0 || len(pending.inserted) != 0 {
		t.Error("expected no state mutation for an unreconcilable event")
	}
}

// ---------------------------------------------------------------------------
// ActivatePending
// ---------------------------------------------------------------------------

func TestActivatePending_SweepsAllMatchingRows(t *testing.T) {
	users := newStubUserRepo()
	users.byID["u1"] = &domain.User{ID: "u1", Email: "user@x.com"}
	pending := &stubPendingRepo{rows: []*domain.PendingPremiumPayment{
		{ID: "p1", Email: "user@x.com", StripeSessionID: "cs_1"},
		{ID: "p2", Email: "user@x.com", StripeSessionID: "cs_2"},
		{ID: "p3", Email: "other@x.com", StripeSessionID: "cs_3"},
	}}

	svc := newEntitlementSvc(users, newStubIdentityDir(), pending)
	activated, err := svc.ActivatePending(context.Background(), "u1", "User@X.com")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !activated {
		t.Fatal("expected activation")
	}
	if !users.byID["u1"].IsPremium {
		t.Error("expected premium flag set")
	}
	if len(pending.marked) != 2 {
		t.Errorf("expected both matching rows marked, got %v", pending.marked)
	}
	if pending.markedAt.IsZero() {
		t.Error("expected processed timestamp")
	}
}

func TestActivatePending_NothingPending(t *testing.T) {
	users := newStubUserRepo()
	users.byID["u1"] = &domain.User{ID: "u1"}

	svc := newEntitlementSvc(users, newStubIdentityDir(), &stubPendingRepo{})
	activated, err := svc.ActivatePending(context.Background(), "u1", "user@x.com")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activated {
		t.Error("expected no activation")
	}
	if len(users.premium) != 0 {
		t.Error("expected premium flag untouched")
	}
}

func TestActivatePending_MarkFailureNonFatal(t *testing.T) {
	users := newStubUserRepo()
	users.byID["u1"] = &domain.User{ID: "u1"}
	pending := &stubPendingRepo{
		rows:    []*domain.PendingPremiumPayment{{ID: "p1", Email: "user@x.com"}},
		markErr: errors.New("db unavailable"),
	}

	svc := newEntitlementSvc(users, newStubIdentityDir(), pending)
	activated, err := svc.ActivatePending(context.Background(), "u1", "user@x.com")

	// Premium is already granted; bookkeeping failure must not surface.
	if err != nil {
		t.Fatalf("expected success despite mark failure, got: %v", err)
	}
	if !activated {
		t.Error("expected activation reported")
	}
	if !users.byID["u1"].IsPremium {
		t.Error("expected premium flag set")
	}
}

func TestActivatePending_SetPremiumFailureIsFatal(t *testing.T) {
	users := newStubUserRepo()
	users.setErr = errors.New("db unavailable")
	pending := &stubPendingRepo{
		rows: []*domain.PendingPremiumPayment{{ID: "p1", Email: "user@x.com"}},
	}

	svc := newEntitlementSvc(users, newStubIdentityDir(), pending)
	_, err := svc.ActivatePending(context.Background(), "u1", "user@x.com")

	if err == nil {
		t.Fatal("expected error when the primary update fails")
	}
	if len(pending.marked) != 0 {
		t.Error("rows must not be marked processed when premium was not granted")
	}
}

func TestActivatePending_LookupFailureIsFatal(t *testing.T) {
	pending := &stubPendingRepo{findErr: errors.New("db unavailable")}

	svc := newEntitlementSvc(newStubUserRepo(), newStubIdentityDir(), pending)
	_, err := svc.ActivatePending(context.Background(), "u1", "user@x.com")

	if err == nil {
		t.Fatal("expected error")
	}
}
