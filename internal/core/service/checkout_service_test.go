package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

type stubCheckoutProvider struct {
	session *domain.CheckoutSession
	err     error
	inputs  []ports.CreateCheckoutInput
}

func (p *stubCheckoutProvider) CreateCheckoutSession(_ context.Context, in ports.CreateCheckoutInput) (*domain.CheckoutSession, error) {
	p.inputs = append(p.inputs, in)
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

func TestCheckoutService_CreateSession(t *testing.T) {
	provider := &stubCheckoutProvider{
		session: &domain.CheckoutSession{ID: "cs_123", URL: "https://checkout.stripe.com/c/cs_123"},
	}

	svc := NewCheckoutService(provider, zerolog.Nop())
	sess, err := svc.CreateSession(context.Background(), ports.CreateCheckoutInput{
		UserID: "u1",
		Email:  "buyer@x.com",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID != "cs_123" || sess.URL == "" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if len(provider.inputs) != 1 || provider.inputs[0].UserID != "u1" || provider.inputs[0].Email != "buyer@x.com" {
		t.Errorf("buyer identity not forwarded: %+v", provider.inputs)
	}
}

func TestCheckoutService_AnonymousBuyer(t *testing.T) {
	provider := &stubCheckoutProvider{session: &domain.CheckoutSession{ID: "cs_1", URL: "https://example.com"}}

	svc := NewCheckoutService(provider, zerolog.Nop())
	_, err := svc.CreateSession(context.Background(), ports.CreateCheckoutInput{})

	if err != nil {
		t.Fatalf("anonymous checkout must be allowed: %v", err)
	}
	if provider.inputs[0].UserID != "" || provider.inputs[0].Email != "" {
		t.Errorf("expected empty identity, got %+v", provider.inputs[0])
	}
}

func TestCheckoutService_ProviderErrorPropagates(t *testing.T) {
	provider := &stubCheckoutProvider{err: errors.New("stripe: invalid api key")}

	svc := NewCheckoutService(provider, zerolog.Nop())
	_, err := svc.CreateSession(context.Background(), ports.CreateCheckoutInput{})

	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
