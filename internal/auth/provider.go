package auth

import (
	"context"

	"github.com/wxllspace/wxllspace-backend/internal/auth/domain"
)

// Provider is the identity backend: it owns credentials and issues the
// bearer tokens clients present on every request.
type Provider interface {
	SignUp(ctx context.Context, creds domain.Credentials, meta domain.Metadata) (domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (domain.Identity, domain.Token, error)
	Verify(ctx context.Context, token string) (domain.Identity, error)
	SignOut(ctx context.Context, token string) error
	Delete(ctx context.Context, identityID string) error
	ChangePassword(ctx context.Context, identityID, password string) error
}
