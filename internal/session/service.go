package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
	"github.com/wxllspace/wxllspace-backend/internal/auth"
	"github.com/wxllspace/wxllspace-backend/internal/auth/domain"
	"github.com/wxllspace/wxllspace-backend/internal/logging"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

// Accounts stores the role and profile records attached to an identity.
type Accounts interface {
	ResolveRole(ctx context.Context, identityID string) (users.Resolution, error)
	CreateAccount(ctx context.Context, a users.Account) error
}

// Session is an authenticated identity together with its resolved role.
type Session struct {
	Identity  domain.Identity `json:"identity"`
	Role      users.Role      `json:"role"`
	Ambiguous bool            `json:"ambiguous,omitempty"`
	Token     *domain.Token   `json:"token,omitempty"`
}

type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// flightTimeout bounds a shared sign-in or sign-up once it no longer follows
// the context of the caller that started it.
const flightTimeout = 30 * time.Second

// Service signs users up, in and out, and resolves the session behind a
// bearer token.
type Service struct {
	provider auth.Provider
	accounts Accounts
	group    singleflight.Group
}

func NewService(provider auth.Provider, accounts Accounts) *Service {
	return &Service{provider: provider, accounts: accounts}
}

// Resolve returns the session for a bearer token.
func (s *Service) Resolve(ctx context.Context, token string) (Session, error) {
	const op = "session.resolve"
	if token == "" {
		return Session{}, apperr.Auth(op, domain.ErrInvalidToken)
	}
	ident, err := s.provider.Verify(ctx, token)
	if err != nil {
		return Session{}, classify(op, err)
	}
	return s.withRole(ctx, ident)
}

// ResolveRole looks the role up in one query. A dual-membership identity
// resolves to artist and is reported as ambiguous.
func (s *Service) ResolveRole(ctx context.Context, identityID string) (users.Resolution, error) {
	res, err := s.accounts.ResolveRole(ctx, identityID)
	if err != nil {
		return users.Resolution{Role: users.RoleNone}, apperr.Unavailable("session.resolve_role", err)
	}
	if res.Ambiguous {
		logging.NewLogger(ctx).LogWarnf("session.resolve_role",
			"identity %s has both artist and wall owner records, resolving as artist", identityID)
	}
	return res, nil
}

// SignUp creates the identity, then its role and profile records. If the
// records cannot be written the identity is deleted again.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Session, error) {
	const op = "session.signup"

	role, err := validateSignUp(in)
	if err != nil {
		return Session{}, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	return s.share(ctx, op, "signup:"+flightKey(email, in.Password), func(ctx context.Context) (Session, error) {
		ident, err := s.provider.SignUp(ctx,
			domain.Credentials{Email: email, Password: in.Password},
			domain.Metadata{FullName: in.FullName, Role: string(role)},
		)
		if err != nil {
			return Session{}, classify(op, err)
		}

		account := users.Account{ID: ident.ID, Email: ident.Email, FullName: in.FullName, Role: role}
		if err := s.accounts.CreateAccount(ctx, account); err != nil {
			return Session{}, s.compensate(ctx, op, ident, err)
		}

		sess := Session{Identity: ident, Role: role}
		_, token, err := s.provider.SignIn(ctx, email, in.Password)
		if err != nil {
			logging.NewLogger(ctx).LogWarnf(op, "account %s created but sign-in failed: %v", ident.ID, err)
			return sess, nil
		}
		sess.Token = &token
		return sess, nil
	})
}

func (s *Service) compensate(ctx context.Context, op string, ident domain.Identity, cause error) error {
	log := logging.NewLogger(ctx)
	log.LogErrorf(op, "writing account records for %s failed: %v", ident.ID, cause)

	if err := s.provider.Delete(ctx, ident.ID); err != nil {
		log.LogErrorf(op, "compensating delete of identity %s failed: %v", ident.ID, err)
		return apperr.Unavailable(op, errors.Join(cause, fmt.Errorf("delete identity %s: %w", ident.ID, err)))
	}
	return apperr.Unavailable(op, cause)
}

// SignIn authenticates and resolves the role. Identical concurrent attempts
// share one provider call.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	const op = "session.signin"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, apperr.Validation(op, "email and password are required")
	}

	return s.share(ctx, op, "signin:"+flightKey(email, password), func(ctx context.Context) (Session, error) {
		ident, token, err := s.provider.SignIn(ctx, email, password)
		if err != nil {
			return Session{}, classify(op, err)
		}
		sess, err := s.withRole(ctx, ident)
		if err != nil {
			return Session{}, err
		}
		sess.Token = &token
		return sess, nil
	})
}

// share runs fn once per key for all concurrent callers. fn gets a context
// detached from the first caller, so one client going away neither fails the
// others nor interrupts a sign-up halfway. Each caller still stops waiting
// when its own context ends.
func (s *Service) share(ctx context.Context, op, key string, fn func(context.Context) (Session, error)) (Session, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		return fn(fctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Session{}, res.Err
		}
		return res.Val.(Session), nil
	case <-ctx.Done():
		return Session{}, apperr.Unavailable(op, ctx.Err())
	}
}

// SignOut never fails for the caller; provider errors are only logged.
func (s *Service) SignOut(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.provider.SignOut(ctx, token); err != nil {
		logging.NewLogger(ctx).LogError("session.signout", err)
	}
}

// ChangePassword applies the password policy and updates the credential.
func (s *Service) ChangePassword(ctx context.Context, identityID, password string) error {
	const op = "session.change_password"
	if err := auth.ValidatePassword(password); err != nil {
		return apperr.Validation(op, err.Error())
	}
	if err := s.provider.ChangePassword(ctx, identityID, password); err != nil {
		return classify(op, err)
	}
	return nil
}

func (s *Service) withRole(ctx context.Context, ident domain.Identity) (Session, error) {
	res, err := s.ResolveRole(ctx, ident.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Identity: ident, Role: res.Role, Ambiguous: res.Ambiguous}, nil
}

func validateSignUp(in SignUpInput) (users.Role, error) {
	const op = "session.signup"

	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return users.RoleNone, apperr.Validation(op, "a valid email address is required")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return users.RoleNone, apperr.Validation(op, "full name is required")
	}
	role, err := users.ParseRole(in.Role)
	if err != nil {
		return users.RoleNone, apperr.Validation(op, "role must be artist or wall_owner")
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return users.RoleNone, apperr.Validation(op, err.Error())
	}
	return role, nil
}

// classify maps provider errors onto the error taxonomy.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenRevoked):
		return apperr.Auth(op, err)
	case errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordNoDigit),
		errors.Is(err, auth.ErrPasswordNoUpper),
		errors.Is(err, auth.ErrPasswordNoSymbol),
		errors.Is(err, auth.ErrPasswordTooLong):
		return apperr.Validation(op, err.Error())
	case errors.Is(err, domain.ErrIdentityNotFound):
		return apperr.Wrap(apperr.KindNotFound, op, err)
	default:
		return apperr.Unavailable(op, err)
	}
}

func flightKey(email, password string) string {
	sum := sha256.Sum256([]byte(email + "\x00" + password))
	return hex.EncodeToString(sum[:])
}
