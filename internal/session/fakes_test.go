package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wxllspace/wxllspace-backend/internal/auth/domain"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

type fakeProvider struct {
	mu         sync.Mutex
	passwords  map[string]string
	ids        map[string]string
	deleted    []string
	signIns    atomic.Int32
	gate       chan struct{}
	deleteErr  error
	signOutErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{passwords: map[string]string{}, ids: map[string]string{}}
}

func (f *fakeProvider) SignUp(_ context.Context, creds domain.Credentials, meta domain.Metadata) (domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.passwords[creds.Email]; ok {
		return domain.Identity{}, domain.ErrEmailTaken
	}
	f.passwords[creds.Email] = creds.Password
	f.ids[creds.Email] = "id-" + creds.Email
	return domain.Identity{ID: "id-" + creds.Email, Email: creds.Email, FullName: meta.FullName}, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (domain.Identity, domain.Token, error) {
	f.signIns.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return domain.Identity{}, domain.Token{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.passwords[email]; !ok || pw != password {
		return domain.Identity{}, domain.Token{}, domain.ErrInvalidCredentials
	}
	return domain.Identity{ID: f.ids[email], Email: email},
		domain.Token{Value: "tok-" + email, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeProvider) Verify(_ context.Context, token string) (domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, id := range f.ids {
		if token == "tok-"+email {
			return domain.Identity{ID: id, Email: email}, nil
		}
	}
	return domain.Identity{}, domain.ErrInvalidToken
}

func (f *fakeProvider) SignOut(context.Context, string) error { return f.signOutErr }

func (f *fakeProvider) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for email, known := range f.ids {
		if known == id {
			delete(f.ids, email)
			delete(f.passwords, email)
		}
	}
	return nil
}

func (f *fakeProvider) ChangePassword(_ context.Context, id, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, known := range f.ids {
		if known == id {
			f.passwords[email] = password
			return nil
		}
	}
	return domain.ErrIdentityNotFound
}

type fakeAccounts struct {
	mu         sync.Mutex
	roles      map[string]users.Resolution
	createErr  error
	resolveErr error
	entered    chan struct{}
	gate       chan struct{}
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{roles: map[string]users.Resolution{}}
}

func (f *fakeProvider) registered(email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.passwords[email]
	return ok
}

func (f *fakeAccounts) ResolveRole(_ context.Context, id string) (users.Resolution, error) {
	if f.resolveErr != nil {
		return users.Resolution{Role: users.RoleNone}, f.resolveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.roles[id]; ok {
		return r, nil
	}
	return users.Resolution{Role: users.RoleNone}, nil
}

func (f *fakeAccounts) CreateAccount(_ context.Context, a users.Account) error {
	if f.gate != nil {
		close(f.entered)
		<-f.gate
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[a.ID] = users.Resolution{Role: a.Role}
	return nil
}

var errDB = errors.New("db unavailable")
