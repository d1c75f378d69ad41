package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

type checkoutService struct {
	provider ports.CheckoutProvider
	log      zerolog.Logger
}

// NewCheckoutService returns a CheckoutService backed by the given provider.
func NewCheckoutService(provider ports.CheckoutProvider, log zerolog.Logger) ports.CheckoutService {
	return &checkoutService{provider: provider, log: log}
}

// CreateSession requests a hosted checkout session for the fixed premium
// product. Provider rejections propagate to the caller unchanged.
func (s *checkoutService) CreateSession(ctx context.Context, in ports.CreateCheckoutInput) (*domain.CheckoutSession, error) {
	sess, err := s.provider.CreateCheckoutSession(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	s.log.Info().
		Str("session_id", sess.ID).
		Str("user_id", in.UserID).
		Msg("checkout session created")

	return sess, nil
}
