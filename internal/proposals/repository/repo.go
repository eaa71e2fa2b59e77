package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/wxllspace/wxllspace-backend/internal/proposals/domain"
)

// ProposalRepository provides persistence operations for proposals
type ProposalRepository struct {
	db *sql.DB
}

func New(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

const selectProposal = `
select pr.id, p.public_id, p.owner_id, a.id, a.name, coalesce(a.specialty, ''),
       (select count(*) from projects done where done.assigned_artist_id = a.id and done.status = 'completed'),
       pr.budget, pr.timeline, pr.message, pr.portfolio, pr.submitted_at,
       pr.status, coalesce(pr.feedback, ''), pr.decided_at
from proposals pr
join projects p on p.id = pr.project_id
join artists a on a.id = pr.artist_id
`

// ProjectOwner returns the owner of a project, domain.ErrProjectNotFound
// if there is none.
func (r *ProposalRepository) ProjectOwner(ctx context.Context, projectID string) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, `select owner_id from projects where public_id = $1`, projectID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrProjectNotFound
	}
	if err != nil {
		return "", fmt.Errorf("project owner: %w", err)
	}
	return owner, nil
}

// Create stores a pending proposal on a project that is still searching
// for an artist.
func (r *ProposalRepository) Create(ctx context.Context, p domain.Proposal) (*domain.Proposal, error) {
	const q = `
insert into proposals (id, project_id, artist_id, budget, timeline, message, portfolio)
select $1, p.id, $3, $4, $5, $6, $7
from projects p
where p.public_id = $2 and p.status = 'searching'
returning id;
`
	var id string
	err := r.db.QueryRowContext(ctx, q,
		p.ID, p.ProjectID, p.Artist.ID, p.Budget, p.Timeline, p.Message, pq.Array(p.Portfolio),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectClosed
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return nil, domain.ErrAlreadyProposed
	}
	if err != nil {
		return nil, fmt.Errorf("insert proposal: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *ProposalRepository) Get(ctx context.Context, id string) (*domain.Proposal, error) {
	p, err := scanProposal(r.db.QueryRowContext(ctx, selectProposal+`where pr.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return p, nil
}

// ListByProject returns a project's proposals in submission order.
func (r *ProposalRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Proposal, error) {
	rows, err := r.db.QueryContext(ctx, selectProposal+`where p.public_id = $1 order by pr.seq`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Proposal, 0, 8)
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Accept moves a pending proposal to accepted, assigns its artist to the
// project, starts the project and records the acceptance on the timeline.
// Nothing is written unless every step succeeds.
func (r *ProposalRepository) Accept(ctx context.Context, id, ownerID string) (*domain.Proposal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const decide = `
update proposals pr
set status = 'accepted', decided_at = now()
from projects p
where pr.id = $1 and pr.project_id = p.id and p.owner_id = $2 and pr.status = 'pending'
returning pr.project_id, pr.artist_id, pr.budget, pr.timeline;
`
	var (
		projectID int64
		artistID  string
		budget    int
		timeline  string
	)
	err = tx.QueryRowContext(ctx, decide, id, ownerID).Scan(&projectID, &artistID, &budget, &timeline)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.decisionMiss(ctx, tx, id, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("accept proposal: %w", err)
	}

	const assign = `
update projects
set assigned_artist_id = $2, status = 'in_progress', budget = $3, updated_at = now()
where id = $1 and status = 'searching'
`
	res, err := tx.ExecContext(ctx, assign, projectID, artistID, budget)
	if err != nil {
		return nil, fmt.Errorf("assign artist: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, domain.ErrProjectClosed
	}

	const event = `
insert into project_events (project_id, kind, title, description, status)
values ($1, 'acceptance', 'Devis accepté', $2, 'completed')
`
	if _, err := tx.ExecContext(ctx, event, projectID, fmt.Sprintf("Devis de %d € sur %s validé", budget, timeline)); err != nil {
		return nil, fmt.Errorf("record acceptance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return r.Get(ctx, id)
}

// Reject moves a pending proposal to rejected and stores the feedback sent
// to the artist.
func (r *ProposalRepository) Reject(ctx context.Context, id, ownerID, feedback string) (*domain.Proposal, error) {
	const q = `
update proposals pr
set status = 'rejected', feedback = $3, decided_at = now()
from projects p
where pr.id = $1 and pr.project_id = p.id and p.owner_id = $2 and pr.status = 'pending'
`
	res, err := r.db.ExecContext(ctx, q, id, ownerID, feedback)
	if err != nil {
		return nil, fmt.Errorf("reject proposal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, r.decisionMiss(ctx, r.db, id, ownerID)
	}
	return r.Get(ctx, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// decisionMiss explains why a guarded decision matched no row: the
// proposal is not visible to ownerID, or it was already decided.
func (r *ProposalRepository) decisionMiss(ctx context.Context, q queryer, id, ownerID string) error {
	const check = `
select pr.status
from proposals pr
join projects p on p.id = pr.project_id
where pr.id = $1 and p.owner_id = $2
`
	var status string
	err := q.QueryRowContext(ctx, check, id, ownerID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check proposal: %w", err)
	}
	return domain.ErrNotPending
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProposal(s scanner) (*domain.Proposal, error) {
	var p domain.Proposal
	var portfolio pq.StringArray
	var decided sql.NullTime
	err := s.Scan(
		&p.ID, &p.ProjectID, &p.OwnerID, &p.Artist.ID, &p.Artist.Name, &p.Artist.Style,
		&p.Artist.CompletedProjects,
		&p.Budget, &p.Timeline, &p.Message, &portfolio, &p.SubmittedAt,
		&p.Status, &p.Feedback, &decided,
	)
	if err != nil {
		return nil, err
	}
	p.Portfolio = []string(portfolio)
	if p.Portfolio == nil {
		p.Portfolio = []string{}
	}
	if decided.Valid {
		t := decided.Time
		p.DecidedAt = &t
	}
	return &p, nil
}
