package session

import (
	"context"
	"sync"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
	"github.com/wxllspace/wxllspace-backend/internal/auth/domain"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

// ErrActionInFlight is returned when a store is asked to start an action
// while another one has not completed yet.
var ErrActionInFlight = apperr.New(apperr.KindConflict, "session", "another session action is already in progress")

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Snapshot is a read-only copy of a store.
type Snapshot struct {
	State     string           `json:"state"`
	Loading   bool             `json:"loading"`
	Identity  *domain.Identity `json:"identity"`
	Role      users.Role       `json:"role"`
	Ambiguous bool             `json:"ambiguous,omitempty"`
}

// Store holds one client's session. It starts uninitialized, is loading
// while the identity or role is being resolved and ready afterwards.
type Store struct {
	svc *Service

	mu       sync.Mutex
	state    State
	session  *Session
	inFlight bool
}

func NewStore(svc *Service) *Store {
	return &Store{svc: svc}
}

// Init resolves an existing token. A missing or rejected token leaves the
// store ready without identity.
func (st *Store) Init(ctx context.Context, token string) error {
	if err := st.begin(); err != nil {
		return err
	}
	if token == "" {
		st.finish(nil)
		return nil
	}
	sess, err := st.svc.Resolve(ctx, token)
	if err != nil {
		st.finish(nil)
		if apperr.Is(err, apperr.KindAuth) {
			return nil
		}
		return err
	}
	sess.Token = &domain.Token{Value: token}
	st.finish(&sess)
	return nil
}

func (st *Store) SignIn(ctx context.Context, email, password string) (Session, error) {
	if err := st.begin(); err != nil {
		return Session{}, err
	}
	sess, err := st.svc.SignIn(ctx, email, password)
	if err != nil {
		st.finish(st.current())
		return Session{}, err
	}
	st.finish(&sess)
	return sess, nil
}

func (st *Store) SignUp(ctx context.Context, in SignUpInput) (Session, error) {
	if err := st.begin(); err != nil {
		return Session{}, err
	}
	sess, err := st.svc.SignUp(ctx, in)
	if err != nil {
		st.finish(st.current())
		return Session{}, err
	}
	if sess.Token == nil {
		st.finish(nil)
		return sess, nil
	}
	st.finish(&sess)
	return sess, nil
}

// SignOut clears identity and role unconditionally.
func (st *Store) SignOut(ctx context.Context) {
	st.mu.Lock()
	sess := st.session
	st.session = nil
	st.state = StateReady
	st.mu.Unlock()

	if sess != nil && sess.Token != nil {
		st.svc.SignOut(ctx, sess.Token.Value)
	}
}

func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()

	snap := Snapshot{State: st.state.String(), Loading: st.state == StateLoading, Role: users.RoleNone}
	if st.session != nil {
		ident := st.session.Identity
		snap.Identity = &ident
		snap.Role = st.session.Role
		snap.Ambiguous = st.session.Ambiguous
	}
	return snap
}

// Session returns the current session, nil when signed out.
func (st *Store) Session() *Session {
	return st.current()
}

func (st *Store) begin() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.inFlight {
		return ErrActionInFlight
	}
	st.inFlight = true
	st.state = StateLoading
	return nil
}

func (st *Store) finish(sess *Session) {
	st.mu.Lock()
	st.session = sess
	st.state = StateReady
	st.inFlight = false
	st.mu.Unlock()
}

func (st *Store) current() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.session == nil {
		return nil
	}
	cp := *st.session
	return &cp
}
