// Package scraper discovers sponsor brands by mining podcast show notes.
// Episode descriptions link out to sponsor landing pages; everything that
// survives the trash filter and is not already known becomes a brand row.
package scraper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

// foundCategory marks brands discovered by the scraper, as opposed to
// manually curated entries.
const foundCategory = "podcast-found"

// defaultFeeds is the guaranteed feed list: high-volume shows whose notes
// reliably carry sponsor links.
var defaultFeeds = []string{
	"https://feeds.megaphone.fm/hubermanlab",
	"https://rss.art19.com/tim-ferriss-show",
	"https://lexfridman.com/feed/podcast/",
	"https://feeds.simplecast.com/4T39_jAj",
	"https://feeds.megaphone.fm/stuffyoushouldknow",
}

const defaultWorkers = 4

// Scraper pulls RSS feeds and persists newly discovered sponsor brands.
type Scraper struct {
	brands      ports.BrandRepository
	parser      *gofeed.Parser
	feeds       []string
	maxEpisodes int
	workers     int
	now         func() time.Time
	log         zerolog.Logger
}

// Options configures a Scraper. Zero values fall back to the defaults.
type Options struct {
	Feeds       []string
	MaxEpisodes int
	Workers     int
}

// New creates a Scraper over the given brand repository.
func New(brands ports.BrandRepository, opts Options, log zerolog.Logger) *Scraper {
	feeds := opts.Feeds
	if len(feeds) == 0 {
		feeds = defaultFeeds
	}
	maxEpisodes := opts.MaxEpisodes
	if maxEpisodes <= 0 {
		maxEpisodes = 50
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Scraper{
		brands:      brands,
		parser:      gofeed.NewParser(),
		feeds:       feeds,
		maxEpisodes: maxEpisodes,
		workers:     workers,
		now:         time.Now,
		log:         log,
	}
}

// Run scrapes every configured feed and returns the number of new sponsor
// brands saved. Feeds are processed by a fixed worker pool; a failing feed
// is logged and skipped, it never aborts the run.
func (s *Scraper) Run(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	feedCh := make(chan string)
	var total atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for feedURL := range feedCh {
				n, err := s.scrapeFeed(ctx, feedURL)
				if err != nil {
					s.log.Error().Err(err).Str("feed", feedURL).Msg("feed scrape failed")
					continue
				}
				total.Add(int64(n))
			}
		}()
	}

	for _, feedURL := range s.feeds {
		select {
		case <-ctx.Done():
			close(feedCh)
			wg.Wait()
			return int(total.Load()), ctx.Err()
		case feedCh <- feedURL:
		}
	}
	close(feedCh)
	wg.Wait()

	s.log.Info().Int("new_sponsors", int(total.Load())).Msg("scrape complete")
	return int(total.Load()), nil
}

func (s *Scraper) scrapeFeed(ctx context.Context, feedURL string) (int, error) {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return 0, err
	}

	items := feed.Items
	if len(items) > s.maxEpisodes {
		items = items[:s.maxEpisodes]
	}
	s.log.Info().Str("feed", feedURL).Int("episodes", len(items)).Msg("scraping feed")

	found := 0
	for _, item := range items {
		// Show notes live in the description on some hosts and in the
		// content:encoded block on others; scan both.
		for _, link := range ExtractLinks(item.Description + item.Content) {
			if err := ctx.Err(); err != nil {
				return found, err
			}
			if s.saveSponsor(ctx, link) {
				found++
			}
		}
	}
	return found, nil
}

// saveSponsor persists the brand behind a show-notes link. Returns true only
// when a new row was written.
func (s *Scraper) saveSponsor(ctx context.Context, link string) bool {
	dom := RootDomain(link)
	if dom == "" || IsTrashDomain(dom) {
		return false
	}
	name := BrandName(dom)
	if name == "" {
		return false
	}

	exists, err := s.brands.ExistsByName(ctx, name)
	if err != nil {
		s.log.Warn().Err(err).Str("brand", name).Msg("existence check failed")
		return false
	}
	if exists {
		return false
	}

	brand := &domain.Brand{
		Name:       name,
		Category:   foundCategory,
		WebsiteURL: link,
		IsActive:   true,
		CreatedAt:  s.now(),
	}
	if err := s.brands.Insert(ctx, brand); err != nil {
		// Concurrent workers can race on the same domain; the unique index
		// settles it.
		if errors.Is(err, domain.ErrDuplicateBrand) {
			return false
		}
		s.log.Warn().Err(err).Str("brand", name).Msg("brand insert failed")
		return false
	}

	s.log.Info().Str("brand", name).Str("domain", dom).Str("url", link).Msg("sponsor found")
	return true
}
