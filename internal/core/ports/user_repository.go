package ports

import (
	"context"

	"github.com/sponsorfinder/sponsorfinder-api/internal/core/domain"
)

// UserRepository defines persistence operations for application users.
// The premium flag is mutated exclusively through SetPremium.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	// SetPremium flips the premium flag on an existing user.
	// Returns domain.ErrUserNotFound when no row matches id.
	SetPremium(ctx context.Context, id string, premium bool) error
}

// IdentityDirectory looks up accounts in the external identity provider's
// user directory. Matching is case-insensitive on email; this is the single
// place the matching rule lives.
type IdentityDirectory interface {
	// FindByEmail returns domain.ErrIdentityNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.IdentityUser, error)
}
