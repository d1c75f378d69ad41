package domain

import (
	"errors"
	"time"
)

var ErrBrandNotFound = errors.New("brand not found")
var ErrDuplicateBrand = errors.New("brand already exists")

// Brand is a sponsor brand listed in the directory. Rows are produced by the
// scraper (category "podcast-found") or curated by hand; the API only reads
// active ones.
type Brand struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name"`
	Category   string    `json:"category" bson:"category"`
	WebsiteURL string    `json:"website_url" bson:"website_url"`
	IsActive   bool      `json:"is_active" bson:"is_active"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Contact is an outreach contact belonging to a brand. Contacts are only
// exposed to premium users.
type Contact struct {
	ID      string `json:"id" bson:"_id,omitempty"`
	BrandID string `json:"brand_id" bson:"brand_id"`
	Email   string `json:"email" bson:"email"`
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Role    string `json:"role,omitempty" bson:"role,omitempty"`
}
