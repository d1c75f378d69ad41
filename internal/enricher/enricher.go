// Package enricher upgrades bare brand rows into actionable outreach
// targets. A waterfall of sources runs per brand: the Hunter.io API first,
// then the brand site's team pages, then guessed department inboxes.
package enricher

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
	"github.com/sponsorfinder/sponsorfinder-api/internal/scraper"
)

// brandDelay spaces out brands so the target sites and the Hunter API are
// not hammered.
const brandDelay = 2 * time.Second

// Enricher finds contacts for brands that have none yet.
type Enricher struct {
	brands   ports.BrandRepository
	contacts ports.ContactRepository

	// hunter is nil when no API key is configured; the waterfall then
	// starts at the team page step.
	hunter *HunterClient
	pages  *TeamPageScraper

	delay time.Duration
	log   zerolog.Logger
}

// New creates an Enricher. Pass a nil hunter to skip the API step.
func New(brands ports.BrandRepository, contacts ports.ContactRepository, hunter *HunterClient, pages *TeamPageScraper, log zerolog.Logger) *Enricher {
	return &Enricher{
		brands:   brands,
		contacts: contacts,
		hunter:   hunter,
		pages:    pages,
		delay:    brandDelay,
		log:      log,
	}
}

// Stats summarises an enrichment run.
type Stats struct {
	Brands   int // brands needing enrichment
	Enriched int // brands that gained at least one contact
	Contacts int // contact rows written
}

// Run enriches every brand that has a website but no contacts. Individual
// brand failures are logged and skipped; only listing the work queue can
// fail the run.
func (e *Enricher) Run(ctx context.Context) (Stats, error) {
	brands, err := e.brands.ListWithoutContacts(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Brands: len(brands)}
	for i, brand := range brands {
		if i > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(e.delay):
			}
		}

		n := e.enrichBrand(ctx, brand)
		if n > 0 {
			stats.Enriched++
			stats.Contacts += n
		}
	}

	e.log.Info().
		Int("brands", stats.Brands).
		Int("enriched", stats.Enriched).
		Int("contacts", stats.Contacts).
		Msg("enrichment complete")
	return stats, nil
}

// enrichBrand runs the waterfall for one brand and returns the number of
// contacts saved. Each step only runs when the previous one produced
// nothing usable.
func (e *Enricher) enrichBrand(ctx context.Context, brand *domain.Brand) int {
	log := e.log.With().Str("brand", brand.Name).Str("url", brand.WebsiteURL).Logger()

	dom := scraper.RootDomain(brand.WebsiteURL)
	if dom == "" {
		log.Warn().Msg("could not extract domain")
		return 0
	}

	// Step A: Hunter.io API.
	if e.hunter != nil {
		leads, err := e.hunter.DomainSearch(ctx, dom)
		if err != nil {
			log.Warn().Err(err).Msg("hunter search failed")
		}
		if n := e.saveLeads(ctx, brand.ID, leads); n > 0 {
			log.Info().Int("contacts", n).Str("source", "hunter").Msg("brand enriched")
			return n
		}
	}

	// Step B: team page scraper.
	leads, err := e.pages.FindLeads(ctx, brand.WebsiteURL)
	if err != nil {
		log.Warn().Err(err).Msg("team page scrape failed")
	}
	if n := e.saveLeads(ctx, brand.ID, leads); n > 0 {
		log.Info().Int("contacts", n).Str("source", "team_pages").Msg("brand enriched")
		return n
	}

	// Step C: guessed department inboxes.
	if n := e.saveLeads(ctx, brand.ID, GenericLeads(dom)); n > 0 {
		log.Info().Int("contacts", n).Str("source", "guesser").Msg("brand enriched")
		return n
	}

	log.Warn().Msg("no contacts found")
	return 0
}

func (e *Enricher) saveLeads(ctx context.Context, brandID string, leads []Lead) int {
	saved := 0
	for _, lead := range leads {
		if lead.Email == "" {
			continue
		}
		contact := &domain.Contact{
			BrandID: brandID,
			Email:   strings.ToLower(strings.TrimSpace(lead.Email)),
			Name:    strings.TrimSpace(lead.Name),
			Role:    strings.TrimSpace(lead.Role),
		}
		if err := e.contacts.Insert(ctx, contact); err != nil {
			e.log.Warn().Err(err).Str("email", contact.Email).Msg("contact insert failed")
			continue
		}
		saved++
	}
	return saved
}
