package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sponsorfinder/sponsorfinder-api/internal/api/metrics"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

// PremiumHandler sweeps pending pre-signup payments into entitlement.
type PremiumHandler struct {
	entitlement ports.EntitlementService
}

func NewPremiumHandler(entitlement ports.EntitlementService) *PremiumHandler {
	return &PremiumHandler{entitlement: entitlement}
}

type activatePendingRequest struct {
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail" validate:"omitempty,email"`
}

type activatePendingResponse struct {
	Success          bool   `json:"success"`
	PremiumActivated bool   `json:"premiumActivated"`
	Message          string `json:"message,omitempty"`
}

// ActivatePending handles POST /v1/premium/activate-pending — called after
// signup or login to claim payments made before the account existed.
//
// @Summary      Claim pending premium payments
// @Tags         premium
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      activatePendingRequest  false  "Identity override"
// @Success      200   {object}  activatePendingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/premium/activate-pending [post]
func (h *PremiumHandler) ActivatePending(c echo.Context) error {
	var req activatePendingRequest
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
	if req.UserID == "" || req.UserEmail == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId and userEmail are required")
	}

	activated, err := h.entitlement.ActivatePending(c.Request().Context(), req.UserID, req.UserEmail)
	if err != nil {
		return err
	}

	resp := activatePendingResponse{Success: true, PremiumActivated: activated}
	if activated {
		metrics.PremiumActivationsTotal.WithLabelValues("sweep").Inc()
		resp.Message = "premium activated from pending payment"
	} else {
		resp.Message = "no pending payments found"
	}

	return c.JSON(http.StatusOK, resp)
}
