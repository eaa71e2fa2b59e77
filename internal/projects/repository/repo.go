package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wxllspace/wxllspace-backend/internal/projects/domain"
	"github.com/wxllspace/wxllspace-backend/internal/wizard"
)

const publishAttempts = 5

var errPublicIDTaken = errors.New("public id taken")

// Repo stores walls and the projects created from them.
type Repo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Submit publishes a wizard draft. It satisfies wizard.Submitter.
func (r *Repo) Submit(ctx context.Context, ownerID string, d wizard.WallDraft) (wizard.Receipt, error) {
	return r.Publish(ctx, ownerID, d)
}

// Publish inserts the wall, its photos, the project and its first timeline
// event in one transaction. The whole transaction is retried when a
// generated public id collides.
func (r *Repo) Publish(ctx context.Context, ownerID string, d wizard.WallDraft) (wizard.Receipt, error) {
	var receipt wizard.Receipt
	err := retryPublicIDs(publishAttempts, func() error {
		var err error
		receipt, err = r.publishOnce(ctx, ownerID, d)
		return err
	})
	return receipt, err
}

func (r *Repo) publishOnce(ctx context.Context, ownerID string, d wizard.WallDraft) (wizard.Receipt, error) {
	wallPublicID, err := domain.NewPublicID(domain.WallIDPrefix)
	if err != nil {
		return wizard.Receipt{}, err
	}
	projectPublicID, err := domain.NewPublicID(domain.ProjectIDPrefix)
	if err != nil {
		return wizard.Receipt{}, err
	}

	var deadline *time.Time
	if t, ok := d.DeadlineDate(); ok {
		deadline = &t
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return wizard.Receipt{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertWall = `
insert into walls (public_id, owner_id, title, description, location, postal_code,
                   surface_type, owner_type, indoor, height_m, width_m,
                   budget_min, budget_max, desired_timing, deadline)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
returning id;
`
	var wallID int64
	err = tx.QueryRow(ctx, insertWall,
		wallPublicID, ownerID, d.Title, d.Description, d.Location, d.PostalCode,
		d.SurfaceType, d.OwnerType, d.Indoor, d.Height, d.Width,
		d.BudgetMin, d.BudgetMax, d.DesiredTiming, deadline,
	).Scan(&wallID)
	if err != nil {
		return wizard.Receipt{}, fmt.Errorf("insert wall: %w", err)
	}

	if len(d.Photos) > 0 {
		batch := &pgx.Batch{}
		for i, p := range d.Photos {
			batch.Queue(`
insert into wall_photos (wall_id, position, object_key, file_name, content_type, size_bytes)
values ($1, $2, $3, $4, $5, $6);`, wallID, i, p.Key, p.Name, p.ContentType, p.Size)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return wizard.Receipt{}, fmt.Errorf("insert wall photos: %w", err)
		}
	}

	const insertProject = `
insert into projects (public_id, wall_id, owner_id, title, budget, deadline, location, wall_size)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning id;
`
	var projectID int64
	err = tx.QueryRow(ctx, insertProject,
		projectPublicID, wallID, ownerID, d.Title, d.BudgetMax, deadline, d.Location, WallSize(d.Width, d.Height),
	).Scan(&projectID)
	if err != nil {
		return wizard.Receipt{}, fmt.Errorf("insert project: %w", err)
	}

	const insertEvent = `
insert into project_events (project_id, kind, title, description, status)
values ($1, $2, $3, $4, $5);
`
	if _, err := tx.Exec(ctx, insertEvent, projectID, domain.EventMessage,
		"Mur publié", "Le mur est visible par les artistes", domain.EventCompleted); err != nil {
		return wizard.Receipt{}, fmt.Errorf("insert project event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return wizard.Receipt{}, fmt.Errorf("commit: %w", err)
	}
	return wizard.Receipt{WallID: wallPublicID, ProjectID: projectPublicID}, nil
}

const selectProject = `
select p.public_id, w.public_id, p.owner_id, p.title, p.status, p.progress, p.budget,
       p.deadline, p.location, p.wall_size, a.id, a.name,
       (select count(*) from proposals pr where pr.project_id = p.id and pr.status = 'pending'),
       p.created_at, p.updated_at
from projects p
join walls w on w.id = p.wall_id
left join artists a on a.id = p.assigned_artist_id
`

// Get returns a project by public id.
func (r *Repo) Get(ctx context.Context, publicID string) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, selectProject+`where p.public_id = $1;`, publicID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByOwner returns the projects of a wall owner, newest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	return r.list(ctx, selectProject+`where p.owner_id = $1 order by p.created_at desc;`, ownerID)
}

// ListByArtist returns the projects assigned to an artist, newest first.
func (r *Repo) ListByArtist(ctx context.Context, artistID string) ([]domain.Project, error) {
	return r.list(ctx, selectProject+`where p.assigned_artist_id = $1 order by p.created_at desc;`, artistID)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Timeline returns the events of a project in the order they happened.
func (r *Repo) Timeline(ctx context.Context, publicID string) ([]domain.Event, error) {
	const q = `
select e.id, e.kind, e.title, e.description, e.status, e.occurred_at
from project_events e
join projects p on p.id = e.project_id
where p.public_id = $1
order by e.occurred_at, e.id;
`
	rows, err := r.db.Query(ctx, q, publicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Event, 0, 8)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Kind, &e.Title, &e.Description, &e.Status, &e.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// OwnerTotals aggregates a wall owner's walls and projects.
func (r *Repo) OwnerTotals(ctx context.Context, ownerID string) (domain.OwnerTotals, error) {
	const q = `
select
  (select count(*) from walls where owner_id = $1),
  count(*) filter (where p.status in ('searching', 'in_progress')),
  coalesce(sum(p.budget) filter (where p.assigned_artist_id is not null), 0),
  (select count(*) from proposals pr join projects pp on pp.id = pr.project_id
    where pp.owner_id = $1 and pr.status = 'pending')
from projects p
where p.owner_id = $1;
`
	var t domain.OwnerTotals
	err := r.db.QueryRow(ctx, q, ownerID).Scan(&t.Walls, &t.ActiveProjects, &t.Spent, &t.PendingApplicants)
	return t, err
}

// ArtistTotals aggregates the projects assigned to an artist.
func (r *Repo) ArtistTotals(ctx context.Context, artistID string) (domain.ArtistTotals, error) {
	const q = `
select count(*),
       count(*) filter (where status = 'completed'),
       coalesce(sum(budget) filter (where status = 'completed'), 0)
from projects
where assigned_artist_id = $1;
`
	var t domain.ArtistTotals
	err := r.db.QueryRow(ctx, q, artistID).Scan(&t.Projects, &t.Completed, &t.Earnings)
	return t, err
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p          domain.Project
		artistID   *string
		artistName *string
	)
	err := row.Scan(
		&p.ID, &p.WallID, &p.OwnerID, &p.Title, &p.Status, &p.Progress, &p.Budget,
		&p.Deadline, &p.Location, &p.WallSize, &artistID, &artistName,
		&p.Applicants, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if artistID != nil {
		p.Artist = &domain.ArtistRef{ID: *artistID}
		if artistName != nil {
			p.Artist.Name = *artistName
		}
	}
	return &p, nil
}

// WallSize formats wall dimensions the way listings show them, e.g. "5x3m".
func WallSize(width, height float64) string {
	return strconv.FormatFloat(width, 'f', -1, 64) + "x" + strconv.FormatFloat(height, 'f', -1, 64) + "m"
}

// retryPublicIDs runs fn until it succeeds, fails with something other
// than a unique violation, or attempts run out.
func retryPublicIDs(attempts int, fn func() error) error {
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return err
	}
	return fmt.Errorf("publish: %w after %d attempts", errPublicIDTaken, attempts)
}
