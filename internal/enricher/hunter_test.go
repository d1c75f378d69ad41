package enricher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHunterClient_DomainSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/domain-search" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("domain") != "acme.com" || r.URL.Query().Get("api_key") != "key-1" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"emails": [
					{"value": "jane@acme.com", "first_name": "Jane", "last_name": "Doe", "position": "Head of Marketing"},
					{"value": "bob@acme.com", "first_name": "Bob", "last_name": "Ng", "position": "Software Engineer"},
					{"value": "", "position": "Marketing"},
					{"value": "pr@acme.com", "position": "PR Manager"}
				]
			}
		}`))
	}))
	defer srv.Close()

	h := NewHunterClient("key-1")
	h.baseURL = srv.URL

	leads, err := h.DomainSearch(context.Background(), "acme.com")
	if err != nil {
		t.Fatalf("DomainSearch error: %v", err)
	}

	if len(leads) != 2 {
		t.Fatalf("expected 2 role-matched leads, got %d: %+v", len(leads), leads)
	}
	if leads[0].Name != "Jane Doe" || leads[0].Email != "jane@acme.com" {
		t.Fatalf("unexpected first lead: %+v", leads[0])
	}
	if leads[1].Email != "pr@acme.com" || leads[1].Name != "" {
		t.Fatalf("unexpected second lead: %+v", leads[1])
	}
}

func TestHunterClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors": [{"details": "rate limit exceeded"}]}`))
	}))
	defer srv.Close()

	h := NewHunterClient("key-1")
	h.baseURL = srv.URL

	if _, err := h.DomainSearch(context.Background(), "acme.com"); err == nil {
		t.Fatalf("expected error from API error payload")
	}
}

func TestHunterClient_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	h := NewHunterClient("key-1")
	h.baseURL = srv.URL

	if _, err := h.DomainSearch(context.Background(), "acme.com"); err == nil {
		t.Fatalf("expected error on non-200 response")
	}
}

func TestMatchesTargetRole(t *testing.T) {
	yes := []string{"Head of Marketing", "Partnerships Lead", "PR Manager", "Director of Growth", "sponsorship coordinator"}
	for _, p := range yes {
		if !matchesTargetRole(p) {
			t.Errorf("matchesTargetRole(%q) = false, want true", p)
		}
	}
	no := []string{"Software Engineer", "CFO", ""}
	for _, p := range no {
		if matchesTargetRole(p) {
			t.Errorf("matchesTargetRole(%q) = true, want false", p)
		}
	}
}
