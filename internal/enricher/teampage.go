package enricher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	// maxTeamPages bounds how many pages are fetched per brand site.
	maxTeamPages = 5

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// teamKeywords mark links that likely lead to pages listing people.
var teamKeywords = []string{"about", "team", "contact", "press"}

// roleKeywords classify a mailto link by its surrounding text. Order
// matters: the first matching group wins.
var roleKeywords = []struct {
	role     string
	keywords []string
}{
	{"Press", []string{"press", "media", "pr", "public relations"}},
	{"Marketing", []string{"marketing", "growth", "acquisition"}},
	{"Partnership", []string{"partnership", "partnerships", "sponsor", "sponsorship"}},
	{"Contact", []string{"contact", "general", "info"}},
}

var namePattern = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

// TeamPageScraper extracts contact leads from a brand site's about, team,
// contact, and press pages.
type TeamPageScraper struct {
	client    *http.Client
	pageDelay time.Duration
}

func NewTeamPageScraper() *TeamPageScraper {
	return &TeamPageScraper{
		client:    &http.Client{Timeout: 10 * time.Second},
		pageDelay: time.Second,
	}
}

// FindLeads fetches the homepage, follows likely team pages on the same
// host, and returns every mailto address found with a best-effort name and
// role. Fetch failures on individual pages are skipped.
func (t *TeamPageScraper) FindLeads(ctx context.Context, baseURL string) ([]Lead, error) {
	base := normalizeURL(baseURL)
	if base == "" {
		return nil, fmt.Errorf("invalid site url: %q", baseURL)
	}

	pages := t.findTeamPages(ctx, base)

	var leads []Lead
	for i, pageURL := range pages {
		if i > 0 {
			select {
			case <-ctx.Done():
				return leads, ctx.Err()
			case <-time.After(t.pageDelay):
			}
		}

		root, err := t.fetch(ctx, pageURL)
		if err != nil {
			continue
		}
		leads = append(leads, mailtoLeads(root)...)
	}
	return leads, nil
}

// findTeamPages returns the homepage plus same-host links whose text or
// href hints at a people page, capped at maxTeamPages.
func (t *TeamPageScraper) findTeamPages(ctx context.Context, base string) []string {
	pages := []string{base}

	root, err := t.fetch(ctx, base)
	if err != nil {
		return pages
	}

	baseParsed, err := url.Parse(base)
	if err != nil {
		return pages
	}

	for _, a := range collectAnchors(root) {
		if len(pages) >= maxTeamPages {
			break
		}
		haystack := strings.ToLower(a.text + " " + a.href)
		if !containsAny(haystack, teamKeywords) {
			continue
		}

		ref, err := url.Parse(a.href)
		if err != nil {
			continue
		}
		resolved := baseParsed.ResolveReference(ref)
		if resolved.Host != baseParsed.Host {
			continue
		}

		full := resolved.String()
		if !contains(pages, full) {
			pages = append(pages, full)
		}
	}
	return pages
}

func (t *TeamPageScraper) fetch(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}
	return html.Parse(resp.Body)
}

// anchor is a flattened <a> element with enough context to classify it.
type anchor struct {
	href       string
	text       string
	parentText string
}

func collectAnchors(root *html.Node) []anchor {
	var anchors []anchor
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if href == "" {
					break
				}
				a := anchor{href: href, text: strings.TrimSpace(nodeText(n))}
				if n.Parent != nil {
					a.parentText = strings.TrimSpace(nodeText(n.Parent))
				}
				anchors = append(anchors, a)
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return anchors
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

// mailtoLeads turns every mailto anchor in the document into a Lead,
// classifying role and name from the link and its parent element text.
func mailtoLeads(root *html.Node) []Lead {
	var leads []Lead
	for _, a := range collectAnchors(root) {
		if !strings.HasPrefix(a.href, "mailto:") {
			continue
		}

		email := strings.TrimPrefix(a.href, "mailto:")
		// Drop ?subject=... and other parameters.
		if i := strings.IndexAny(email, "?&"); i >= 0 {
			email = email[:i]
		}
		email = strings.TrimSpace(email)
		if email == "" || !strings.Contains(email, "@") {
			continue
		}

		leads = append(leads, Lead{
			Name:  leadName(a),
			Role:  leadRole(a),
			Email: strings.ToLower(email),
		})
	}
	return leads
}

func leadRole(a anchor) string {
	combined := strings.ToLower(a.text + " " + a.parentText)
	for _, group := range roleKeywords {
		if containsAny(combined, group.keywords) {
			return group.role
		}
	}
	return "Contact"
}

func leadName(a anchor) string {
	if a.text != "" && !strings.Contains(a.text, "@") {
		return a.text
	}
	if m := namePattern.FindString(a.parentText); m != "" {
		return m
	}
	return ""
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return raw
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
