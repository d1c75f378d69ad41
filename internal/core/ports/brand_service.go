package ports

import (
	"context"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
)

// BrandListing is one directory entry. Contacts is populated only when the
// viewer is premium.
type BrandListing struct {
	Brand    *domain.Brand
	Contacts []*domain.Contact
}

// BrandDirectory is the result of a directory query.
type BrandDirectory struct {
	Brands    []BrandListing
	IsPremium bool
}

// BrandService serves the brand directory with premium-gated contacts.
type BrandService interface {
	// List returns active brands, optionally filtered by category. viewerID
	// is empty for anonymous requests; contacts are attached only when the
	// viewer's user record has the premium flag set.
	List(ctx context.Context, category, viewerID string) (*BrandDirectory, error)
	Categories(ctx context.Context) ([]string, error)
}
