package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxllspace/wxllspace-backend/internal/proposals/domain"
)

const proposalID = "5b0f5a1e-8f2c-4d3b-9a57-0c1d2e3f4a5b"

var proposalColumns = []string{
	"id", "public_id", "owner_id", "artist_id", "artist_name", "specialty", "completed",
	"budget", "timeline", "message", "portfolio", "submitted_at", "status", "feedback", "decided_at",
}

func newMock(t *testing.T) (*ProposalRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func proposalRow(status string, decided any) *sqlmock.Rows {
	return sqlmock.NewRows(proposalColumns).AddRow(
		proposalID, "project-10000-0001", "o1", "a1", "Julie Dubois", "Graffiti moderne", 23,
		1500, "15 jours", "Bonjour !", "{https://img/1.jpg,https://img/2.jpg}",
		time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC), status, "", decided,
	)
}

func TestGetScansArtistSummary(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("where pr.id = $1")).
		WithArgs(proposalID).
		WillReturnRows(proposalRow("pending", nil))

	p, err := repo.Get(context.Background(), proposalID)
	require.NoError(t, err)
	assert.Equal(t, "Julie Dubois", p.Artist.Name)
	assert.Equal(t, 23, p.Artist.CompletedProjects)
	assert.Equal(t, []string{"https://img/1.jpg", "https://img/2.jpg"}, p.Portfolio)
	assert.Equal(t, domain.StatusPending, p.Status)
	assert.Nil(t, p.DecidedAt)
	assert.Equal(t, "o1", p.OwnerID)
}

func TestGetMissing(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("select").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), proposalID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOnClosedProject(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("insert into proposals")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Create(context.Background(), domain.Proposal{ID: proposalID, ProjectID: "project-10000-0001"})
	assert.ErrorIs(t, err, domain.ErrProjectClosed)
}

func TestCreateDuplicatePending(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("insert into proposals")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), domain.Proposal{ID: proposalID, ProjectID: "project-10000-0001"})
	assert.ErrorIs(t, err, domain.ErrAlreadyProposed)
}

func TestAcceptRunsOneTransaction(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("set status = 'accepted'")).
		WithArgs(proposalID, "o1").
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "artist_id", "budget", "timeline"}).AddRow(7, "a1", 1500, "15 jours"))
	mock.ExpectExec(regexp.QuoteMeta("set assigned_artist_id = $2, status = 'in_progress'")).
		WithArgs(7, "a1", 1500).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("insert into project_events")).
		WithArgs(7, "Devis de 1500 € sur 15 jours validé").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("where pr.id = $1")).
		WillReturnRows(proposalRow("accepted", time.Now()))

	p, err := repo.Accept(context.Background(), proposalID, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, p.Status)
	assert.NotNil(t, p.DecidedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptRollsBackWhenProjectTaken(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("set status = 'accepted'")).
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "artist_id", "budget", "timeline"}).AddRow(7, "a1", 1500, "15 jours"))
	mock.ExpectExec(regexp.QuoteMeta("update projects")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), proposalID, "o1")
	assert.ErrorIs(t, err, domain.ErrProjectClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptTerminalProposal(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("set status = 'accepted'")).
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "artist_id", "budget", "timeline"}))
	mock.ExpectQuery(regexp.QuoteMeta("select pr.status")).
		WithArgs(proposalID, "o1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("rejected"))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), proposalID, "o1")
	assert.ErrorIs(t, err, domain.ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectByStranger(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("set status = 'rejected'")).
		WithArgs(proposalID, "o2", "trop générique").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("select pr.status")).
		WithArgs(proposalID, "o2").
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	_, err := repo.Reject(context.Background(), proposalID, "o2", "trop générique")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRejectStoresFeedback(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("set status = 'rejected', feedback = $3")).
		WithArgs(proposalID, "o1", "trop générique").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("where pr.id = $1")).
		WillReturnRows(proposalRow("rejected", time.Now()))

	p, err := repo.Reject(context.Background(), proposalID, "o1", "trop générique")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByProjectKeepsOrder(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows(proposalColumns)
	for _, id := range []string{"p1", "p2", "p3"} {
		rows.AddRow(id, "project-10000-0001", "o1", "a1", "Julie", "", 0,
			1000, "10 jours", "msg", nil, time.Now(), "pending", "", nil)
	}
	mock.ExpectQuery(regexp.QuoteMeta("order by pr.seq")).
		WithArgs("project-10000-0001").
		WillReturnRows(rows)

	items, err := repo.ListByProject(context.Background(), "project-10000-0001")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "p3", items[2].ID)
	assert.Equal(t, []string{}, items[0].Portfolio)
}

func TestProjectOwner(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("select owner_id from projects")).
		WithArgs("project-10000-0001").
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("o1"))
	mock.ExpectQuery(regexp.QuoteMeta("select owner_id from projects")).
		WithArgs("project-99999-9999").
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))

	owner, err := repo.ProjectOwner(context.Background(), "project-10000-0001")
	require.NoError(t, err)
	assert.Equal(t, "o1", owner)

	_, err = repo.ProjectOwner(context.Background(), "project-99999-9999")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}
