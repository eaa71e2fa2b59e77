package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/wxllspace/wxllspace-backend/internal/auth/domain"
)

// StoredIdentity is an identities row, password hash included.
type StoredIdentity struct {
	domain.Identity
	PasswordHash string
}

type IdentityRepository struct {
	db *sql.DB
}

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Create inserts a new identity and fills in its generated id.
func (r *IdentityRepository) Create(ctx context.Context, ident *StoredIdentity) error {
	query := `
		INSERT INTO identities (email, password_hash, full_name)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at
	`

	err := r.db.QueryRowContext(ctx, query, ident.Email, ident.PasswordHash, ident.FullName).
		Scan(&ident.ID, &ident.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

// GetByEmail looks an identity up by its (case-insensitive) email.
func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*StoredIdentity, error) {
	query := `
		SELECT id::text, email, password_hash, full_name, created_at
		FROM identities
		WHERE lower(email) = lower($1)
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*StoredIdentity, error) {
	query := `
		SELECT id::text, email, password_hash, full_name, created_at
		FROM identities
		WHERE id::text = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *IdentityRepository) scanOne(row *sql.Row) (*StoredIdentity, error) {
	var ident StoredIdentity
	err := row.Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.FullName, &ident.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

// UpdatePassword replaces the stored hash.
func (r *IdentityRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	query := `
		UPDATE identities
		SET password_hash = $2, updated_at = NOW()
		WHERE id::text = $1
	`
	return r.execOne(ctx, query, id, hash)
}

func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM identities WHERE id::text = $1`, id)
}

func (r *IdentityRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}
