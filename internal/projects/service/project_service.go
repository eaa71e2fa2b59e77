package service

import (
	"context"
	"errors"
	"time"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
	"github.com/wxllspace/wxllspace-backend/internal/projects/domain"
)

// Store is the project persistence the service reads from.
type Store interface {
	Get(ctx context.Context, publicID string) (*domain.Project, error)
	Timeline(ctx context.Context, publicID string) ([]domain.Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
	ListByArtist(ctx context.Context, artistID string) ([]domain.Project, error)
	OwnerTotals(ctx context.Context, ownerID string) (domain.OwnerTotals, error)
	ArtistTotals(ctx context.Context, artistID string) (domain.ArtistTotals, error)
}

var errNotFound = apperr.Wrap(apperr.KindNotFound, "projects", domain.ErrNotFound)

// ProjectService handles project-related business logic
type ProjectService struct {
	store Store
	now   func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(store Store) *ProjectService {
	return &ProjectService{store: store, now: time.Now}
}

// Get returns a project visible to viewerID: its owner or its assigned
// artist. Anyone else gets NotFound.
func (s *ProjectService) Get(ctx context.Context, viewerID, publicID string) (*domain.Project, error) {
	p, err := s.store.Get(ctx, publicID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, apperr.Unavailable("projects.get", err)
	}
	if !canView(p, viewerID) {
		return nil, errNotFound
	}
	return p, nil
}

// Timeline returns the project with its events and the days left before
// the deadline.
func (s *ProjectService) Timeline(ctx context.Context, viewerID, publicID string) (*domain.Timeline, error) {
	p, err := s.Get(ctx, viewerID, publicID)
	if err != nil {
		return nil, err
	}
	events, err := s.store.Timeline(ctx, publicID)
	if err != nil {
		return nil, apperr.Unavailable("projects.timeline", err)
	}

	tl := &domain.Timeline{Project: *p, Events: events}
	if days, ok := p.DaysRemaining(s.now()); ok {
		tl.DaysRemaining = &days
	}
	return tl, nil
}

// OwnerOverview lists a wall owner's projects with the dashboard totals.
func (s *ProjectService) OwnerOverview(ctx context.Context, ownerID string) ([]domain.Project, domain.OwnerTotals, error) {
	items, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.OwnerTotals{}, apperr.Unavailable("projects.owner_overview", err)
	}
	totals, err := s.store.OwnerTotals(ctx, ownerID)
	if err != nil {
		return nil, domain.OwnerTotals{}, apperr.Unavailable("projects.owner_overview", err)
	}
	return items, totals, nil
}

// ArtistOverview lists the projects assigned to an artist with the
// dashboard totals.
func (s *ProjectService) ArtistOverview(ctx context.Context, artistID string) ([]domain.Project, domain.ArtistTotals, error) {
	items, err := s.store.ListByArtist(ctx, artistID)
	if err != nil {
		return nil, domain.ArtistTotals{}, apperr.Unavailable("projects.artist_overview", err)
	}
	totals, err := s.store.ArtistTotals(ctx, artistID)
	if err != nil {
		return nil, domain.ArtistTotals{}, apperr.Unavailable("projects.artist_overview", err)
	}
	return items, totals, nil
}

func canView(p *domain.Project, viewerID string) bool {
	if viewerID == "" {
		return false
	}
	return p.OwnerID == viewerID || (p.Artist != nil && p.Artist.ID == viewerID)
}
