package enricher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testScraper() *TeamPageScraper {
	s := NewTeamPageScraper()
	s.pageDelay = 0
	return s
}

func TestTeamPageScraper_FindLeads(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<a href="/about">About us</a>
			<a href="/pricing">Pricing</a>
			<a href="https://twitter.com/acme">Twitter</a>
		</body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<p>For press inquiries: <a href="mailto:Press@Acme.com?subject=hi">press team</a></p>
			<p>Jane Doe, Sponsorship Lead <a href="mailto:jane@acme.com">jane@acme.com</a></p>
			<a href="mailto:">broken</a>
		</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	leads, err := testScraper().FindLeads(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FindLeads error: %v", err)
	}

	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d: %+v", len(leads), leads)
	}

	if leads[0].Email != "press@acme.com" {
		t.Errorf("email = %q, want press@acme.com (lowercased, params stripped)", leads[0].Email)
	}
	if leads[0].Role != "Press" {
		t.Errorf("role = %q, want Press", leads[0].Role)
	}
	if leads[0].Name != "press team" {
		t.Errorf("name = %q, want the link text", leads[0].Name)
	}

	if leads[1].Email != "jane@acme.com" {
		t.Errorf("email = %q, want jane@acme.com", leads[1].Email)
	}
	if leads[1].Role != "Partnership" {
		t.Errorf("role = %q, want Partnership", leads[1].Role)
	}
	if leads[1].Name != "Jane Doe" {
		t.Errorf("name = %q, want Jane Doe from parent text", leads[1].Name)
	}
}

func TestTeamPageScraper_StaysOnHost(t *testing.T) {
	var paths []string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`<html><body>
			<a href="https://other.example.com/team">Their team</a>
			<a href="/contact">Contact</a>
		</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	if _, err := testScraper().FindLeads(context.Background(), srv.URL); err != nil {
		t.Fatalf("FindLeads error: %v", err)
	}

	for _, p := range paths {
		if p != "/" && p != "/contact" {
			t.Errorf("unexpected fetch of %s: off-host links must be skipped", p)
		}
	}
}

func TestTeamPageScraper_HomepageUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	leads, err := testScraper().FindLeads(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FindLeads must not fail on a dead site: %v", err)
	}
	if len(leads) != 0 {
		t.Fatalf("expected no leads, got %+v", leads)
	}
}

func TestTeamPageScraper_InvalidURL(t *testing.T) {
	if _, err := testScraper().FindLeads(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestGenericLeads(t *testing.T) {
	leads := GenericLeads("acme.com")
	if len(leads) != 4 {
		t.Fatalf("expected 4 generic leads, got %d", len(leads))
	}
	if leads[0].Email != "partnerships@acme.com" || leads[0].Role != "Department Generic" {
		t.Fatalf("unexpected first lead: %+v", leads[0])
	}
	for _, l := range leads {
		if l.Name != "" {
			t.Errorf("generic lead must have no name: %+v", l)
		}
	}
}
