package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/wxllspace/wxllspace-backend/config"
	"github.com/wxllspace/wxllspace-backend/internal/auth/domain"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns an Auth client
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*fbauth.Client, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}

// FirebaseAdmin is the subset of the Admin SDK auth client the provider uses.
type FirebaseAdmin interface {
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// PasswordSignIn exchanges an email/password pair for a Firebase ID token.
// The Admin SDK cannot do this, it goes through the Identity Toolkit API.
type PasswordSignIn func(ctx context.Context, email, password string) (*identitytoolkit.VerifyPasswordResponse, error)

// NewPasswordSignIn builds a PasswordSignIn backed by the Identity Toolkit
// relying-party API authenticated with the web API key.
func NewPasswordSignIn(ctx context.Context, apiKey string) (PasswordSignIn, error) {
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("init identity toolkit: %w", err)
	}
	return func(ctx context.Context, email, password string) (*identitytoolkit.VerifyPasswordResponse, error) {
		return svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
			Email:             email,
			Password:          password,
			ReturnSecureToken: true,
		}).Context(ctx).Do()
	}, nil
}

// FirebaseProvider delegates credentials to Firebase Authentication.
type FirebaseProvider struct {
	admin   FirebaseAdmin
	signIn  PasswordSignIn
	revoker Revoker
}

func NewFirebaseProvider(admin FirebaseAdmin, signIn PasswordSignIn, revoker Revoker) *FirebaseProvider {
	return &FirebaseProvider{admin: admin, signIn: signIn, revoker: revoker}
}

func (p *FirebaseProvider) SignUp(ctx context.Context, creds domain.Credentials, meta domain.Metadata) (domain.Identity, error) {
	if err := ValidatePassword(creds.Password); err != nil {
		return domain.Identity{}, err
	}

	user := (&fbauth.UserToCreate{}).
		Email(normalizeEmail(creds.Email)).
		Password(creds.Password)
	if name := strings.TrimSpace(meta.FullName); name != "" {
		user = user.DisplayName(name)
	}

	rec, err := p.admin.CreateUser(ctx, user)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return domain.Identity{}, domain.ErrEmailTaken
		}
		return domain.Identity{}, fmt.Errorf("create firebase user: %w", err)
	}
	return identityFromRecord(rec), nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (domain.Identity, domain.Token, error) {
	resp, err := p.signIn(ctx, normalizeEmail(email), password)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 400 {
			return domain.Identity{}, domain.Token{}, domain.ErrInvalidCredentials
		}
		return domain.Identity{}, domain.Token{}, fmt.Errorf("firebase sign-in: %w", err)
	}

	ident := domain.Identity{ID: resp.LocalId, Email: resp.Email, FullName: resp.DisplayName}
	token := domain.Token{
		Value:     resp.IdToken,
		ExpiresAt: time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	return ident, token, nil
}

func (p *FirebaseProvider) Verify(ctx context.Context, token string) (domain.Identity, error) {
	decoded, err := p.admin.VerifyIDToken(ctx, token)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	revoked, err := p.revoker.IsRevoked(ctx, tokenDigest(token))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return domain.Identity{}, domain.ErrTokenRevoked
	}

	ident := domain.Identity{ID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		ident.FullName = name
	}
	return ident, nil
}

// SignOut revokes the user's refresh tokens and remembers the ID token
// until it expires, since Firebase ID tokens stay valid on their own.
func (p *FirebaseProvider) SignOut(ctx context.Context, token string) error {
	decoded, err := p.admin.VerifyIDToken(ctx, token)
	if err != nil {
		return nil
	}
	if err := p.admin.RevokeRefreshTokens(ctx, decoded.UID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return p.revoker.Revoke(ctx, tokenDigest(token), time.Until(time.Unix(decoded.Expires, 0)))
}

func (p *FirebaseProvider) Delete(ctx context.Context, identityID string) error {
	if err := p.admin.DeleteUser(ctx, identityID); err != nil {
		if fbauth.IsUserNotFound(err) {
			return domain.ErrIdentityNotFound
		}
		return fmt.Errorf("delete firebase user: %w", err)
	}
	return nil
}

func (p *FirebaseProvider) ChangePassword(ctx context.Context, identityID, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if _, err := p.admin.UpdateUser(ctx, identityID, (&fbauth.UserToUpdate{}).Password(password)); err != nil {
		if fbauth.IsUserNotFound(err) {
			return domain.ErrIdentityNotFound
		}
		return fmt.Errorf("update firebase password: %w", err)
	}
	return nil
}

func identityFromRecord(rec *fbauth.UserRecord) domain.Identity {
	ident := domain.Identity{ID: rec.UID, Email: rec.Email, FullName: rec.DisplayName}
	if rec.UserMetadata != nil && rec.UserMetadata.CreationTimestamp > 0 {
		ident.CreatedAt = time.UnixMilli(rec.UserMetadata.CreationTimestamp)
	}
	return ident
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
