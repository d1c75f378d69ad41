package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sponsorfinder/sponsorfinder-api/internal/api/metrics"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

// CheckoutHandler creates Stripe Checkout sessions for the premium upgrade.
type CheckoutHandler struct {
	checkout ports.CheckoutService
}

func NewCheckoutHandler(checkout ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type createCheckoutRequest struct {
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail" validate:"omitempty,email"`
}

type createCheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// Create handles POST /v1/checkout/session — starts a one-time payment
// Checkout session and returns the hosted payment page URL.
//
// Identity comes from the bearer token when present; the body fields are
// a fallback for clients that manage the session elsewhere. Both may be
// absent: anonymous buyers are reconciled later by the customer email the
// payment provider reports, or deferred as a pending payment until signup.
// The user ID travels in the session metadata (empty when unknown) so the
// webhook can attribute the payment.
//
// @Summary      Create a premium checkout session
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCheckoutRequest  true  "Buyer identity"
// @Success      200   {object}  createCheckoutResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/checkout/session [post]
func (h *CheckoutHandler) Create(c echo.Context) error {
	var req createCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	// Token claims win over the request body. Validation runs on the merged
	// result: a stale body email is irrelevant once the token supplies one.
	if userID, email := ctxUser(c); userID != "" {
		req.UserID = userID
		if email != "" {
			req.UserEmail = email
		}
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.checkout.CreateSession(c.Request().Context(), ports.CreateCheckoutInput{
		UserID: req.UserID,
		Email:  req.UserEmail,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "could not create checkout session")
	}

	metrics.CheckoutSessionsCreatedTotal.Inc()
	return c.JSON(http.StatusOK, createCheckoutResponse{
		SessionID: session.ID,
		URL:       session.URL,
	})
}
