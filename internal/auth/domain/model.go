package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email address or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Identity is an authenticated account as seen by the identity provider.
// ID is opaque: a UUID for the local provider, a Firebase UID otherwise.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Token is a bearer credential issued on sign-in.
type Token struct {
	Value     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Credentials are what a user types into the sign-in / sign-up forms.
type Credentials struct {
	Email    string
	Password string
}

// Metadata is attached to an identity at sign-up.
type Metadata struct {
	FullName string
	Role     string
}
