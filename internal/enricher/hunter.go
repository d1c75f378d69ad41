package enricher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const hunterBaseURL = "https://api.hunter.io/v2"

// targetRoles filters Hunter results down to people worth pitching a
// sponsorship to.
var targetRoles = []string{"marketing", "partnership", "sponsorship", "pr", "director"}

// Lead is a contact candidate produced by any enrichment source. Name may be
// empty for role-only addresses.
type Lead struct {
	Name  string
	Role  string
	Email string
}

// HunterClient queries the Hunter.io domain-search API.
type HunterClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewHunterClient returns a client for the given API key.
func NewHunterClient(apiKey string) *HunterClient {
	return &HunterClient{
		apiKey:  apiKey,
		baseURL: hunterBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type hunterSearchResponse struct {
	Data struct {
		Emails []struct {
			Value     string `json:"value"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Position  string `json:"position"`
		} `json:"emails"`
	} `json:"data"`
	Errors []struct {
		Details string `json:"details"`
	} `json:"errors"`
}

// DomainSearch returns leads for the domain whose position matches one of
// the target roles.
func (h *HunterClient) DomainSearch(ctx context.Context, domain string) ([]Lead, error) {
	q := url.Values{}
	q.Set("domain", domain)
	q.Set("api_key", h.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/domain-search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("hunter request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hunter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hunter responded %d", resp.StatusCode)
	}

	var payload hunterSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("hunter decode: %w", err)
	}
	if len(payload.Errors) > 0 {
		return nil, fmt.Errorf("hunter error: %s", payload.Errors[0].Details)
	}

	var leads []Lead
	for _, e := range payload.Data.Emails {
		if e.Value == "" || !matchesTargetRole(e.Position) {
			continue
		}
		leads = append(leads, Lead{
			Name:  strings.TrimSpace(e.FirstName + " " + e.LastName),
			Role:  e.Position,
			Email: e.Value,
		})
	}
	return leads, nil
}

func matchesTargetRole(position string) bool {
	position = strings.ToLower(position)
	for _, role := range targetRoles {
		if strings.Contains(position, role) {
			return true
		}
	}
	return false
}
