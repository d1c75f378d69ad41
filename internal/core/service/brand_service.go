package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/ports"
)

type brandService struct {
	brands   ports.BrandRepository
	contacts ports.ContactRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

// NewBrandService returns a BrandService implementation.
func NewBrandService(
	brands ports.BrandRepository,
	contacts ports.ContactRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) ports.BrandService {
	return &brandService{brands: brands, contacts: contacts, users: users, log: log}
}

// List returns the directory page data. The viewer's premium flag is
// re-read on every request rather than trusted from the token: entitlement
// can change between token issuance and the request (webhook, sweep).
func (s *brandService) List(ctx context.Context, category, viewerID string) (*ports.BrandDirectory, error) {
	isPremium := s.viewerIsPremium(ctx, viewerID)

	brands, err := s.brands.ListActive(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}

	dir := &ports.BrandDirectory{
		Brands:    make([]ports.BrandListing, len(brands)),
		IsPremium: isPremium,
	}
	for i, b := range brands {
		dir.Brands[i] = ports.BrandListing{Brand: b}
	}

	if !isPremium || len(brands) == 0 {
		return dir, nil
	}

	ids := make([]string, len(brands))
	for i, b := range brands {
		ids[i] = b.ID
	}
	contacts, err := s.contacts.FindByBrandIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list brand contacts: %w", err)
	}

	byBrand := make(map[string][]*domain.Contact, len(brands))
	for _, c := range contacts {
		byBrand[c.BrandID] = append(byBrand[c.BrandID], c)
	}
	for i := range dir.Brands {
		dir.Brands[i].Contacts = byBrand[dir.Brands[i].Brand.ID]
	}

	return dir, nil
}

func (s *brandService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.brands.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// viewerIsPremium resolves the premium flag for a viewer. Anonymous viewers
// and lookup failures read as non-premium: the directory stays available,
// contacts stay locked.
func (s *brandService) viewerIsPremium(ctx context.Context, viewerID string) bool {
	if viewerID == "" {
		return false
	}
	user, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Err(err).Str("user_id", viewerID).Msg("premium check failed, treating viewer as free")
		}
		return false
	}
	return user.IsPremium
}
