// Package billing adapts the Stripe API to the core billing ports: hosted
// checkout session creation and webhook signature verification.
package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

// checkoutCompletedEvent is the single event type that grants entitlement.
const checkoutCompletedEvent = "checkout.session.completed"

// Product describes the fixed-price one-time purchase offered at checkout.
type Product struct {
	Name        string
	Description string
	PriceCents  int64
	Currency    string
}

// Stripe implements ports.CheckoutProvider and ports.WebhookVerifier.
type Stripe struct {
	api           *client.API
	webhookSecret string
	product       Product
	siteURL       string
}

// New creates a Stripe adapter. siteURL is the public frontend origin the
// buyer is redirected back to after checkout.
func New(secretKey, webhookSecret, siteURL string, product Product) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{
		api:           api,
		webhookSecret: webhookSecret,
		product:       product,
		siteURL:       siteURL,
	}
}

// CreateCheckoutSession requests a one-time payment session for the premium
// product. The user id always travels as session metadata (empty string when
// the buyer is anonymous) so the webhook can attribute the payment; the email
// prefills the checkout form only when known.
func (s *Stripe) CreateCheckoutSession(ctx context.Context, in ports.CreateCheckoutInput) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.product.Currency),
					UnitAmount: stripe.Int64(s.product.PriceCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(s.product.Name),
						Description: stripe.String(s.product.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.siteURL + "/pricing?success=true&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.siteURL + "/pricing?canceled=true"),
	}
	params.Context = ctx
	params.AddMetadata("userId", in.UserID)
	if in.Email != "" {
		params.CustomerEmail = stripe.String(in.Email)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return &domain.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// checkoutSessionPayload is the slice of the checkout.session object this
// service cares about. Decoded from the verified event's raw payload.
type checkoutSessionPayload struct {
	ID              string            `json:"id"`
	Customer        string            `json:"customer"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	Metadata map[string]string `json:"metadata"`
}

// VerifyAndParse authenticates a webhook delivery against the signing secret.
// Verification runs on the raw request bytes. Events other than checkout
// completion come back with a nil Checkout so the caller can acknowledge
// them without action.
func (s *Stripe) VerifyAndParse(payload []byte, signature string) (*ports.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe: verify webhook: %w", err)
	}

	out := &ports.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type != checkoutCompletedEvent {
		return out, nil
	}

	var sess checkoutSessionPayload
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe: decode checkout session: %w", err)
	}

	email := sess.CustomerEmail
	if email == "" {
		email = sess.CustomerDetails.Email
	}

	out.Checkout = &ports.CheckoutCompleted{
		SessionID:  sess.ID,
		CustomerID: sess.Customer,
		UserID:     sess.Metadata["userId"],
		Email:      email,
	}
	return out, nil
}
