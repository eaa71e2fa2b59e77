package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

// Account is what sign-up writes next to the identity: the role record and
// the generic profile record.
type Account struct {
	ID       string
	Email    string
	FullName string
	Role     Role
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// ResolveRole checks both role tables in a single round trip.
func (r *Repo) ResolveRole(ctx context.Context, identityID string) (Resolution, error) {
	const q = `
select
  exists(select 1 from artists where id = $1),
  exists(select 1 from wall_owners where id = $1)
`
	var isArtist, isWallOwner bool
	if err := r.db.QueryRowContext(ctx, q, identityID).Scan(&isArtist, &isWallOwner); err != nil {
		return Resolution{Role: RoleNone}, fmt.Errorf("resolve role: %w", err)
	}
	return Resolve(isArtist, isWallOwner), nil
}

// CreateAccount inserts the role record and the profile record in one
// transaction: either both exist afterwards or neither does.
func (r *Repo) CreateAccount(ctx context.Context, a Account) error {
	if a.ID == "" {
		return fmt.Errorf("identity id required")
	}

	var roleInsert string
	switch a.Role {
	case RoleArtist:
		roleInsert = `insert into artists (id, name, contact_email) values ($1, $2, $3)`
	case RoleWallOwner:
		roleInsert = `insert into wall_owners (id, name, contact_email) values ($1, $2, $3)`
	default:
		return fmt.Errorf("unknown role %q", a.Role)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	name := strings.TrimSpace(a.FullName)
	if _, err := tx.ExecContext(ctx, roleInsert, a.ID, name, a.Email); err != nil {
		return fmt.Errorf("insert %s record: %w", a.Role, err)
	}

	const profileInsert = `insert into profiles (id, email, full_name) values ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, profileInsert, a.ID, a.Email, name); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repo) GetProfile(ctx context.Context, identityID string) (*Profile, error) {
	const q = `
select id, email, full_name, created_at, updated_at
from profiles
where id = $1
`
	var p Profile
	err := r.db.QueryRowContext(ctx, q, identityID).Scan(&p.ID, &p.Email, &p.FullName, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateFullName renames the profile and keeps the role record's display
// name in step.
func (r *Repo) UpdateFullName(ctx context.Context, identityID, fullName string) (*Profile, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
update profiles
set full_name = $2, updated_at = now()
where id = $1
returning id, email, full_name, created_at, updated_at
`
	var p Profile
	err = tx.QueryRowContext(ctx, q, identityID, fullName).Scan(&p.ID, &p.Email, &p.FullName, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `update artists set name = $2 where id = $1`, identityID, fullName); err != nil {
		return nil, fmt.Errorf("rename artist: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `update wall_owners set name = $2 where id = $1`, identityID, fullName); err != nil {
		return nil, fmt.Errorf("rename wall owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &p, nil
}
