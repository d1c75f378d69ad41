package scraper

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// trashDomains are destinations that show up in virtually every episode's
// show notes but are never sponsors: social platforms, podcast hosts, and
// link aggregators.
var trashDomains = map[string]struct{}{
	"facebook.com":   {},
	"twitter.com":    {},
	"x.com":          {},
	"instagram.com":  {},
	"youtube.com":    {},
	"youtu.be":       {},
	"tiktok.com":     {},
	"spotify.com":    {},
	"apple.com":      {},
	"google.com":     {},
	"patreon.com":    {},
	"discord.com":    {},
	"amazon.com":     {},
	"amzn.to":        {},
	"linktr.ee":      {},
	"t.me":           {},
	"reddit.com":     {},
	"megaphone.fm":   {},
	"simplecast.com": {},
	"art19.com":      {},
}

// twoPartTLDs are second-level registry labels: for a domain like
// example.co.uk the brand name is "example", not "co".
var twoPartTLDs = map[string]struct{}{
	"co": {}, "com": {}, "net": {}, "org": {}, "io": {}, "ai": {},
	"tv": {}, "me": {}, "us": {}, "uk": {}, "ca": {}, "au": {},
}

// ExtractLinks returns the unique href targets of all anchors in the given
// HTML fragment. Show notes are frequently malformed; the tokenizer-based
// parser recovers what it can instead of failing.
func ExtractLinks(fragment string) []string {
	if fragment == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string

	tz := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := tz.Next()
		if tt == html.ErrorToken {
			return links
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := tz.TagName()
		if len(name) != 1 || name[0] != 'a' || !hasAttr {
			continue
		}
		for {
			key, val, more := tz.TagAttr()
			if string(key) == "href" {
				href := strings.TrimSpace(string(val))
				if href != "" {
					if _, ok := seen[href]; !ok {
						seen[href] = struct{}{}
						links = append(links, href)
					}
				}
			}
			if !more {
				break
			}
		}
	}
}

// RootDomain extracts the registrable host from a URL, lowercased, with the
// www prefix and any port stripped.
//
//	https://www.athleticgreens.com/tim -> athleticgreens.com
func RootDomain(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	domain := strings.ToLower(u.Hostname())
	domain = strings.TrimPrefix(domain, "www.")
	return domain
}

// BrandName derives the brand name from a domain by dropping the TLD.
//
//	athleticgreens.com -> athleticgreens
//	example.co.uk      -> example
func BrandName(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return ""
	}

	parts := strings.Split(domain, ".")
	if len(parts) >= 3 {
		if _, ok := twoPartTLDs[parts[len(parts)-2]]; ok {
			return parts[len(parts)-3]
		}
	}
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return parts[0]
}

// IsTrashDomain reports whether the domain (or any of its labels) matches
// the ignore list. The per-label check catches subdomains like
// open.spotify.com and shortener variants like m.youtube.com.
func IsTrashDomain(domain string) bool {
	if domain == "" {
		return true
	}
	if _, ok := trashDomains[domain]; ok {
		return true
	}
	for _, part := range strings.Split(domain, ".") {
		if _, ok := trashDomains[part]; ok {
			return true
		}
		if _, ok := trashDomains[part+".com"]; ok {
			return true
		}
	}
	return false
}
