package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wxllspace/wxllspace-backend/internal/auth/domain"
	"github.com/wxllspace/wxllspace-backend/internal/auth/repository"
)

var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// IdentityStore is the persistence the local provider needs.
type IdentityStore interface {
	Create(ctx context.Context, ident *repository.StoredIdentity) error
	GetByEmail(ctx context.Context, email string) (*repository.StoredIdentity, error)
	GetByID(ctx context.Context, id string) (*repository.StoredIdentity, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

// LocalProvider keeps bcrypt hashes in Postgres and issues HS256 access
// tokens. Signed-out tokens are remembered by the revoker until expiry.
type LocalProvider struct {
	store   IdentityStore
	revoker Revoker
	secret  string
	issuer  string
	ttl     time.Duration
}

func NewLocalProvider(store IdentityStore, revoker Revoker, secret, issuer string, ttl time.Duration) *LocalProvider {
	return &LocalProvider{store: store, revoker: revoker, secret: secret, issuer: issuer, ttl: ttl}
}

func (p *LocalProvider) SignUp(ctx context.Context, creds domain.Credentials, meta domain.Metadata) (domain.Identity, error) {
	if err := ValidatePassword(creds.Password); err != nil {
		return domain.Identity{}, err
	}
	hash, err := p.hash(creds.Password)
	if err != nil {
		return domain.Identity{}, err
	}

	ident := &repository.StoredIdentity{
		Identity: domain.Identity{
			Email:    normalizeEmail(creds.Email),
			FullName: strings.TrimSpace(meta.FullName),
		},
		PasswordHash: hash,
	}
	if err := p.store.Create(ctx, ident); err != nil {
		return domain.Identity{}, err
	}
	return ident.Identity, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (domain.Identity, domain.Token, error) {
	ident, err := p.store.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return domain.Identity{}, domain.Token{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Identity{}, domain.Token{}, err
	}
	if !CheckPassword(password, ident.PasswordHash) {
		return domain.Identity{}, domain.Token{}, domain.ErrInvalidCredentials
	}

	signed, claims, err := NewAccessToken(p.secret, p.issuer, p.ttl, ident.ID, ident.Email)
	if err != nil {
		return domain.Identity{}, domain.Token{}, err
	}
	return ident.Identity, domain.Token{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (p *LocalProvider) Verify(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := ParseToken(p.secret, p.issuer, token)
	if err != nil {
		if isExpired(err) {
			return domain.Identity{}, fmt.Errorf("%w: expired", domain.ErrInvalidToken)
		}
		return domain.Identity{}, domain.ErrInvalidToken
	}

	revoked, err := p.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return domain.Identity{}, domain.ErrTokenRevoked
	}

	ident, err := p.store.GetByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if err != nil {
		return domain.Identity{}, err
	}
	return ident.Identity, nil
}

// SignOut revokes the token. Tokens that no longer parse are already
// unusable, so they are accepted silently.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	claims, err := ParseToken(p.secret, p.issuer, token)
	if err != nil {
		return nil
	}
	return p.revoker.Revoke(ctx, claims.ID, claims.Remaining())
}

func (p *LocalProvider) Delete(ctx context.Context, identityID string) error {
	return p.store.Delete(ctx, identityID)
}

func (p *LocalProvider) ChangePassword(ctx context.Context, identityID, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := p.hash(password)
	if err != nil {
		return err
	}
	return p.store.UpdatePassword(ctx, identityID, hash)
}

func (p *LocalProvider) hash(password string) (string, error) {
	hash, err := HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	return hash, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
