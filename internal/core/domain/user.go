package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrIdentityNotFound = errors.New("identity not found")

// User is the application-level user record. It is created either by the
// identity provider's post-signup hook or by the entitlement reconciler when
// a payment arrives for an identity that has no application record yet.
// IsPremium gates visibility of brand contact details.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	IsPremium bool      `json:"is_premium" bson:"is_premium"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IdentityUser is an account in the external identity provider's directory.
// The directory is read-only from this service's perspective: the provider
// owns signup, login, and password handling.
type IdentityUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
