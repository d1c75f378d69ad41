package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func premiumContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/v1/premium/activate-pending", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPremiumHandler_ActivatesFromPending(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewPremiumHandler(&stubEntitlement{activated: true})

	c, rec := premiumContext(e, `{"userId":"user-1","userEmail":"alice@example.com"}`)
	if err := h.ActivatePending(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true || resp["premiumActivated"] != true {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPremiumHandler_NothingPending(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewPremiumHandler(&stubEntitlement{activated: false})

	c, rec := premiumContext(e, `{"userId":"user-1","userEmail":"alice@example.com"}`)
	if err := h.ActivatePending(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["success"] != true || resp["premiumActivated"] != false {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPremiumHandler_ClaimsOverrideBody(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	ent := &stubEntitlement{activated: true}
	h := NewPremiumHandler(ent)

	c, rec := premiumContext(e, `{"userId":"forged","userEmail":"forged@example.com"}`)
	c.Set("user_id", "user-9")
	c.Set("user_email", "real@example.com")

	if err := h.ActivatePending(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPremiumHandler_StaleBodyEmailIgnored(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewPremiumHandler(&stubEntitlement{activated: true})

	c, rec := premiumContext(e, `{"userEmail":"not-an-email"}`)
	c.Set("user_id", "user-9")
	c.Set("user_email", "real@example.com")

	if err := h.ActivatePending(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("token email must replace the body email before validation, got %d", rec.Code)
	}
}

func TestPremiumHandler_MissingIdentity(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewPremiumHandler(&stubEntitlement{})

	c, _ := premiumContext(e, `{"userId":"user-1"}`)
	err := h.ActivatePending(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestPremiumHandler_ServiceFailure(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewPremiumHandler(&stubEntitlement{activateErr: errors.New("mongo down")})

	c, _ := premiumContext(e, `{"userId":"user-1","userEmail":"alice@example.com"}`)
	if err := h.ActivatePending(c); err == nil {
		t.Fatalf("expected service error to propagate")
	}
}
