package users

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepo(db), mock
}

func TestResolveRoleSingleQuery(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("exists(select 1 from artists where id = $1)")).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"a", "w"}).AddRow(false, true))

	res, err := repo.ResolveRole(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, Resolution{Role: RoleWallOwner}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveRoleDualMembership(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("select").
		WithArgs("id-2").
		WillReturnRows(sqlmock.NewRows([]string{"a", "w"}).AddRow(true, true))

	res, err := repo.ResolveRole(context.Background(), "id-2")
	require.NoError(t, err)
	assert.Equal(t, RoleArtist, res.Role)
	assert.True(t, res.Ambiguous)
}

func TestResolveRoleError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("select").WillReturnError(errors.New("connection reset"))

	res, err := repo.ResolveRole(context.Background(), "id-3")
	assert.Error(t, err)
	assert.Equal(t, RoleNone, res.Role)
}

func TestCreateAccountCommitsBothRecords(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("insert into wall_owners (id, name, contact_email)")).
		WithArgs("id-1", "Ana", "ana@wxll.fr").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("insert into profiles (id, email, full_name)")).
		WithArgs("id-1", "ana@wxll.fr", "Ana").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateAccount(context.Background(), Account{ID: "id-1", Email: "ana@wxll.fr", FullName: " Ana ", Role: RoleWallOwner})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccountRollsBackOnProfileFailure(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("insert into artists")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("insert into profiles")).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.CreateAccount(context.Background(), Account{ID: "id-1", Email: "a@b.fr", Role: RoleArtist})
	assert.ErrorContains(t, err, "insert profile")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccountRejectsUnknownRole(t *testing.T) {
	repo, mock := newMock(t)

	err := repo.CreateAccount(context.Background(), Account{ID: "id-1", Role: RoleNone})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("from profiles").
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "created_at", "updated_at"}))

	_, err := repo.GetProfile(context.Background(), "id-1")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUpdateFullName(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("update profiles")).
		WithArgs("id-1", "Ana B").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "created_at", "updated_at"}).
			AddRow("id-1", "ana@wxll.fr", "Ana B", now, now))
	mock.ExpectExec(regexp.QuoteMeta("update artists")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("update wall_owners")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	p, err := repo.UpdateFullName(context.Background(), "id-1", "Ana B")
	require.NoError(t, err)
	assert.Equal(t, "Ana B", p.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
