package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxllspace/wxllspace-backend/internal/auth/domain"
	"github.com/wxllspace/wxllspace-backend/internal/auth/repository"
)

type memIdentities struct {
	mu   sync.Mutex
	byID map[string]*repository.StoredIdentity
}

func newMemIdentities() *memIdentities {
	return &memIdentities{byID: map[string]*repository.StoredIdentity{}}
}

func (m *memIdentities) Create(_ context.Context, ident *repository.StoredIdentity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == ident.Email {
			return domain.ErrEmailTaken
		}
	}
	ident.ID = uuid.NewString()
	ident.CreatedAt = time.Now()
	cp := *ident
	m.byID[ident.ID] = &cp
	return nil
}

func (m *memIdentities) GetByEmail(_ context.Context, email string) (*repository.StoredIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ident := range m.byID {
		if strings.EqualFold(ident.Email, email) {
			cp := *ident
			return &cp, nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (m *memIdentities) GetByID(_ context.Context, id string) (*repository.StoredIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ident, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	cp := *ident
	return &cp, nil
}

func (m *memIdentities) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ident, ok := m.byID[id]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	ident.PasswordHash = hash
	return nil
}

func (m *memIdentities) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrIdentityNotFound
	}
	delete(m.byID, id)
	return nil
}

func newTestLocalProvider() *LocalProvider {
	return NewLocalProvider(newMemIdentities(), NewMemoryRevoker(), "secret", "wxllspace", time.Hour)
}

func TestLocalProviderSignUpAndSignIn(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()

	ident, err := p.SignUp(ctx, domain.Credentials{Email: " Ana@Wxll.fr ", Password: "Abcdef1!"}, domain.Metadata{FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@wxll.fr", ident.Email)
	assert.NotEmpty(t, ident.ID)

	_, err = p.SignUp(ctx, domain.Credentials{Email: "ana@wxll.fr", Password: "Abcdef1!"}, domain.Metadata{})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	signedIn, token, err := p.SignIn(ctx, "ANA@wxll.fr", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, ident.ID, signedIn.ID)
	assert.NotEmpty(t, token.Value)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	verified, err := p.Verify(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, ident.ID, verified.ID)
}

func TestLocalProviderRejectsBadCredentials(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()
	_, err := p.SignUp(ctx, domain.Credentials{Email: "ana@wxll.fr", Password: "Abcdef1!"}, domain.Metadata{})
	require.NoError(t, err)

	_, _, err = p.SignIn(ctx, "ana@wxll.fr", "Abcdef1?")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = p.SignIn(ctx, "bob@wxll.fr", "Abcdef1!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLocalProviderEnforcesPolicy(t *testing.T) {
	p := newTestLocalProvider()

	_, err := p.SignUp(context.Background(), domain.Credentials{Email: "a@b.fr", Password: "abcdefg1"}, domain.Metadata{})
	assert.ErrorIs(t, err, ErrPasswordNoUpper)

	_, err = p.SignUp(context.Background(), domain.Credentials{Email: "a@b.fr", Password: "A1!" + strings.Repeat("x", 80)}, domain.Metadata{})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestLocalProviderSignOutRevokes(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()
	_, err := p.SignUp(ctx, domain.Credentials{Email: "ana@wxll.fr", Password: "Abcdef1!"}, domain.Metadata{})
	require.NoError(t, err)
	_, token, err := p.SignIn(ctx, "ana@wxll.fr", "Abcdef1!")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, token.Value))
	_, err = p.Verify(ctx, token.Value)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	assert.NoError(t, p.SignOut(ctx, "garbage"))
}

func TestLocalProviderVerifyDeletedIdentity(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()
	ident, err := p.SignUp(ctx, domain.Credentials{Email: "ana@wxll.fr", Password: "Abcdef1!"}, domain.Metadata{})
	require.NoError(t, err)
	_, token, err := p.SignIn(ctx, "ana@wxll.fr", "Abcdef1!")
	require.NoError(t, err)

	require.NoError(t, p.Delete(ctx, ident.ID))
	_, err = p.Verify(ctx, token.Value)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLocalProviderChangePassword(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()
	ident, err := p.SignUp(ctx, domain.Credentials{Email: "ana@wxll.fr", Password: "Abcdef1!"}, domain.Metadata{})
	require.NoError(t, err)

	assert.ErrorIs(t, p.ChangePassword(ctx, ident.ID, "short"), ErrPasswordTooShort)
	require.NoError(t, p.ChangePassword(ctx, ident.ID, "Zyxwvu9?"))

	_, _, err = p.SignIn(ctx, "ana@wxll.fr", "Abcdef1!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = p.SignIn(ctx, "ana@wxll.fr", "Zyxwvu9?")
	assert.NoError(t, err)
}
