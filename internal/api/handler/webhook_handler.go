package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sponsorfinder/sponsorfinder-api/internal/api/metrics"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

// maxWebhookBody caps the raw payload we are willing to read. Stripe events
// are a few KB; anything near this limit is not a legitimate delivery.
const maxWebhookBody = 1 << 20

// EventDeduper remembers webhook event IDs so provider redeliveries can be
// acknowledged without reprocessing.
type EventDeduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// WebhookHandler receives, verifies, and reconciles payment-provider
// webhook deliveries.
type WebhookHandler struct {
	verifier    ports.WebhookVerifier
	entitlement ports.EntitlementService
	dedup       EventDeduper
	log         zerolog.Logger
}

func NewWebhookHandler(verifier ports.WebhookVerifier, entitlement ports.EntitlementService, dedup EventDeduper, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier:    verifier,
		entitlement: entitlement,
		dedup:       dedup,
		log:         log,
	}
}

type webhookAckResponse struct {
	Received bool   `json:"received"`
	Status   string `json:"status,omitempty"`
}

// Receive handles POST /v1/payments/stripe/webhook.
//
// The raw body is verified against the Stripe-Signature header before any
// JSON is trusted. Verified events are deduplicated by event ID, then
// completed checkouts are reconciled into premium entitlement. A 2xx here
// tells Stripe to stop retrying, so only a failed entitlement write returns
// an error status.
//
// @Summary      Stripe webhook receiver
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header    string  true  "Webhook signature"
// @Success      200  {object}  webhookAckResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/payments/stripe/webhook [post]
func (h *WebhookHandler) Receive(c echo.Context) error {
	sig := c.Request().Header.Get("Stripe-Signature")
	if sig == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing Stripe-Signature header")
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read payload")
	}

	event, err := h.verifier.VerifyAndParse(payload, sig)
	if err != nil {
		h.log.Warn().Err(err).Msg("webhook signature verification failed")
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "error").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	ctx := c.Request().Context()

	// Dedup by event ID. The reconciliation path is idempotent, so a lookup
	// failure means processing anyway: reprocessing is safe, dropping a
	// delivery is not. The failure is counted separately so the dedup
	// metric never mistakes a broken store for a run of genuine misses.
	switch seen, err := h.dedup.Seen(ctx, event.ID); {
	case err != nil:
		metrics.WebhookDedupTotal.WithLabelValues("error").Inc()
		h.log.Warn().Err(err).Str("event_id", event.ID).Msg("dedup lookup failed, processing anyway")
	case seen:
		metrics.WebhookDedupTotal.WithLabelValues("hit").Inc()
		h.log.Info().Str("event_id", event.ID).Str("type", event.Type).Msg("duplicate webhook delivery acknowledged")
		return c.JSON(http.StatusOK, webhookAckResponse{Received: true, Status: "duplicate"})
	default:
		metrics.WebhookDedupTotal.WithLabelValues("miss").Inc()
	}

	if event.Checkout == nil {
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
		h.log.Debug().Str("event_id", event.ID).Str("type", event.Type).Msg("unhandled webhook event type")
		return c.JSON(http.StatusOK, webhookAckResponse{Received: true})
	}

	outcome, err := h.entitlement.Reconcile(ctx, *event.Checkout)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "error").Inc()
		h.log.Error().Err(err).
			Str("event_id", event.ID).
			Str("session_id", event.Checkout.SessionID).
			Msg("webhook reconciliation failed")
		// Non-2xx so the provider redelivers.
		return echo.NewHTTPError(http.StatusInternalServerError, "reconciliation failed")
	}

	metrics.WebhookEventsTotal.WithLabelValues(event.Type, "processed").Inc()
	switch outcome {
	case ports.OutcomeActivated:
		metrics.PremiumActivationsTotal.WithLabelValues("activated").Inc()
	case ports.OutcomeUserCreated:
		metrics.PremiumActivationsTotal.WithLabelValues("user_created").Inc()
	case ports.OutcomeDeferred:
		metrics.PendingPaymentsCreatedTotal.Inc()
	}

	if err := h.dedup.Mark(ctx, event.ID); err != nil {
		h.log.Warn().Err(err).Str("event_id", event.ID).Msg("could not mark webhook event as seen")
	}

	h.log.Info().
		Str("event_id", event.ID).
		Str("session_id", event.Checkout.SessionID).
		Str("outcome", string(outcome)).
		Msg("webhook reconciled")

	return c.JSON(http.StatusOK, webhookAckResponse{Received: true, Status: string(outcome)})
}
