package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type contactResponse struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

type brandResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	WebsiteURL string            `json:"website_url"`
	CreatedAt  time.Time         `json:"created_at"`
	Contacts   []contactResponse `json:"contacts,omitempty"`
}

type brandDirectoryResponse struct {
	Brands    []brandResponse `json:"brands"`
	Total     int             `json:"total"`
	IsPremium bool            `json:"is_premium"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}
