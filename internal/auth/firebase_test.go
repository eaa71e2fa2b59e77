package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"

	"github.com/wxllspace/wxllspace-backend/internal/auth/domain"
)

type fakeAdmin struct {
	created  []*fbauth.UserToCreate
	createFn func() (*fbauth.UserRecord, error)
	deleted  []string
	revoked  []string
	tokens   map[string]*fbauth.Token
}

func (f *fakeAdmin) CreateUser(_ context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
	f.created = append(f.created, user)
	return f.createFn()
}

func (f *fakeAdmin) UpdateUser(_ context.Context, uid string, _ *fbauth.UserToUpdate) (*fbauth.UserRecord, error) {
	return &fbauth.UserRecord{UserInfo: &fbauth.UserInfo{UID: uid}}, nil
}

func (f *fakeAdmin) DeleteUser(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeAdmin) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	if tok, ok := f.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid id token")
}

func (f *fakeAdmin) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func TestFirebaseProviderSignUp(t *testing.T) {
	admin := &fakeAdmin{createFn: func() (*fbauth.UserRecord, error) {
		return &fbauth.UserRecord{
			UserInfo:     &fbauth.UserInfo{UID: "fb-1", Email: "ana@wxll.fr", DisplayName: "Ana"},
			UserMetadata: &fbauth.UserMetadata{CreationTimestamp: 1700000000000},
		}, nil
	}}
	p := NewFirebaseProvider(admin, nil, NewMemoryRevoker())

	ident, err := p.SignUp(context.Background(), domain.Credentials{Email: "Ana@wxll.fr", Password: "Abcdef1!"}, domain.Metadata{FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "fb-1", ident.ID)
	assert.Equal(t, time.UnixMilli(1700000000000), ident.CreatedAt)
	assert.Len(t, admin.created, 1)

	_, err = p.SignUp(context.Background(), domain.Credentials{Email: "a@b.fr", Password: "weak"}, domain.Metadata{})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Len(t, admin.created, 1)
}

func TestFirebaseProviderSignIn(t *testing.T) {
	signIn := func(_ context.Context, email, password string) (*identitytoolkit.VerifyPasswordResponse, error) {
		if password != "Abcdef1!" {
			return nil, &googleapi.Error{Code: 400, Message: "INVALID_PASSWORD"}
		}
		return &identitytoolkit.VerifyPasswordResponse{LocalId: "fb-1", Email: email, IdToken: "id-token", ExpiresIn: 3600}, nil
	}
	p := NewFirebaseProvider(&fakeAdmin{}, signIn, NewMemoryRevoker())

	ident, token, err := p.SignIn(context.Background(), "ana@wxll.fr", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", ident.ID)
	assert.Equal(t, "id-token", token.Value)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	_, _, err = p.SignIn(context.Background(), "ana@wxll.fr", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestFirebaseProviderSignOutRevokesIDToken(t *testing.T) {
	admin := &fakeAdmin{tokens: map[string]*fbauth.Token{
		"id-token": {UID: "fb-1", Expires: time.Now().Add(time.Hour).Unix(), Claims: map[string]interface{}{"email": "ana@wxll.fr"}},
	}}
	p := NewFirebaseProvider(admin, nil, NewMemoryRevoker())
	ctx := context.Background()

	ident, err := p.Verify(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, "ana@wxll.fr", ident.Email)

	require.NoError(t, p.SignOut(ctx, "id-token"))
	assert.Equal(t, []string{"fb-1"}, admin.revoked)

	_, err = p.Verify(ctx, "id-token")
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	_, err = p.Verify(ctx, "forged")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
