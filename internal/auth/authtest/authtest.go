// Package authtest provides a fixed-token session service for handler tests.
package authtest

import (
	"context"

	"github.com/wxllspace/wxllspace-backend/internal/auth/domain"
	"github.com/wxllspace/wxllspace-backend/internal/session"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

// User is the identity a bearer token resolves to.
type User struct {
	ID    string
	Email string
	Role  users.Role
}

// NewService returns a session service that accepts exactly the tokens in
// table. Sign-in and sign-up always fail.
func NewService(table map[string]User) *session.Service {
	return session.NewService(provider(table), accounts(table))
}

type provider map[string]User

func (p provider) SignUp(context.Context, domain.Credentials, domain.Metadata) (domain.Identity, error) {
	return domain.Identity{}, domain.ErrEmailTaken
}

func (p provider) SignIn(context.Context, string, string) (domain.Identity, domain.Token, error) {
	return domain.Identity{}, domain.Token{}, domain.ErrInvalidCredentials
}

func (p provider) Verify(_ context.Context, token string) (domain.Identity, error) {
	u, ok := p[token]
	if !ok {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{ID: u.ID, Email: u.Email}, nil
}

func (p provider) SignOut(context.Context, string) error { return nil }

func (p provider) Delete(context.Context, string) error { return nil }

func (p provider) ChangePassword(context.Context, string, string) error { return nil }

type accounts map[string]User

func (a accounts) ResolveRole(_ context.Context, id string) (users.Resolution, error) {
	for _, u := range a {
		if u.ID == id {
			return users.Resolution{Role: u.Role}, nil
		}
	}
	return users.Resolution{Role: users.RoleNone}, nil
}

func (a accounts) CreateAccount(context.Context, users.Account) error { return nil }
