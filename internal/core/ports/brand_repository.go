package ports

import (
	"context"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
)

// BrandRepository defines persistence operations for sponsor brands.
type BrandRepository interface {
	// ListActive returns active brands ordered by name. When category is
	// non-empty the result is filtered to that category.
	ListActive(ctx context.Context, category string) ([]*domain.Brand, error)
	// ListCategories returns the distinct categories of active brands.
	ListCategories(ctx context.Context) ([]string, error)
	// ExistsByName reports whether a brand with the given name exists,
	// compared case-insensitively.
	ExistsByName(ctx context.Context, name string) (bool, error)
	// Insert persists a new brand. Returns domain.ErrDuplicateBrand when a
	// unique constraint rejects the row.
	Insert(ctx context.Context, brand *domain.Brand) error
	// ListWithoutContacts returns active brands that have a website URL but
	// no contact rows yet (the enricher's work queue).
	ListWithoutContacts(ctx context.Context) ([]*domain.Brand, error)
}

// ContactRepository defines persistence operations for brand contacts.
type ContactRepository interface {
	// FindByBrandIDs returns all contacts belonging to the given brands.
	FindByBrandIDs(ctx context.Context, brandIDs []string) ([]*domain.Contact, error)
	Insert(ctx context.Context, contact *domain.Contact) error
}
