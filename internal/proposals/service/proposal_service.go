package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
	"github.com/wxllspace/wxllspace-backend/internal/logging"
	"github.com/wxllspace/wxllspace-backend/internal/metrics"
	"github.com/wxllspace/wxllspace-backend/internal/notify"
	"github.com/wxllspace/wxllspace-backend/internal/proposals/domain"
)

const maxPortfolio = 10

// Store is the proposal persistence used by the service.
type Store interface {
	ProjectOwner(ctx context.Context, projectID string) (string, error)
	Create(ctx context.Context, p domain.Proposal) (*domain.Proposal, error)
	Get(ctx context.Context, id string) (*domain.Proposal, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Proposal, error)
	Accept(ctx context.Context, id, ownerID string) (*domain.Proposal, error)
	Reject(ctx context.Context, id, ownerID, feedback string) (*domain.Proposal, error)
}

// Notifier reaches a user outside the request that triggered the event.
type Notifier interface {
	Notify(ctx context.Context, userID string, n notify.Notification) error
}

// Submission is what an artist sends to bid on a project.
type Submission struct {
	Budget    int      `json:"budget"`
	Timeline  string   `json:"timeline"`
	Message   string   `json:"message"`
	Portfolio []string `json:"portfolio"`
}

// Chat is the conversation opened with the artist behind a proposal.
type Chat struct {
	ProposalID string `json:"proposal_id"`
	ArtistID   string `json:"artist_id"`
	ArtistName string `json:"artist_name"`
	Message    string `json:"message"`
}

// ProposalService runs the review workflow: artists submit, the project
// owner accepts or rejects each pending proposal exactly once.
type ProposalService struct {
	store    Store
	notifier Notifier
}

func NewProposalService(store Store, notifier Notifier) *ProposalService {
	return &ProposalService{store: store, notifier: notifier}
}

// Submit records a pending proposal from artistID and tells the project
// owner about it.
func (s *ProposalService) Submit(ctx context.Context, artistID, projectID string, in Submission) (*domain.Proposal, error) {
	const op = "proposals.submit"

	in.Timeline = strings.TrimSpace(in.Timeline)
	in.Message = strings.TrimSpace(in.Message)
	switch {
	case in.Budget <= 0:
		return nil, apperr.Validation(op, "budget must be positive")
	case in.Timeline == "":
		return nil, apperr.Validation(op, "timeline is required")
	case in.Message == "":
		return nil, apperr.Validation(op, "message is required")
	case len(in.Portfolio) > maxPortfolio:
		return nil, apperr.Validation(op, fmt.Sprintf("at most %d portfolio images", maxPortfolio))
	}
	if in.Portfolio == nil {
		in.Portfolio = []string{}
	}

	owner, err := s.store.ProjectOwner(ctx, projectID)
	if err != nil {
		return nil, classify(op, err)
	}

	p, err := s.store.Create(ctx, domain.Proposal{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Artist:    domain.ArtistSummary{ID: artistID},
		Budget:    in.Budget,
		Timeline:  in.Timeline,
		Message:   in.Message,
		Portfolio: in.Portfolio,
	})
	if err != nil {
		return nil, classify(op, err)
	}

	s.notify(ctx, op, owner, notify.Notification{
		Type:       notify.TypeProposalReceived,
		Title:      "Nouvelle candidature",
		Message:    fmt.Sprintf("%s a proposé %d € sur %s.", p.Artist.Name, p.Budget, p.Timeline),
		ProjectID:  projectID,
		ProposalID: p.ID,
	})
	return p, nil
}

// List returns a project's proposals split into pending and processed.
// Only the project owner may see them.
func (s *ProposalService) List(ctx context.Context, ownerID, projectID string) (domain.Partitioned, error) {
	const op = "proposals.list"

	owner, err := s.store.ProjectOwner(ctx, projectID)
	if err != nil {
		return domain.Partitioned{}, classify(op, err)
	}
	if owner != ownerID {
		return domain.Partitioned{}, domain.ErrProjectNotFound
	}

	items, err := s.store.ListByProject(ctx, projectID)
	if err != nil {
		return domain.Partitioned{}, classify(op, err)
	}
	return domain.Partition(items), nil
}

// Accept decides a pending proposal in favour of its artist.
func (s *ProposalService) Accept(ctx context.Context, ownerID, id string) (p *domain.Proposal, err error) {
	const op = "proposals.accept"
	defer func() { metrics.ProposalDecisions.WithLabelValues("accept", metrics.Result(err)).Inc() }()

	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	p, err = s.store.Accept(ctx, id, ownerID)
	if err != nil {
		return nil, classify(op, err)
	}

	s.notify(ctx, op, p.Artist.ID, notify.Notification{
		Type:       notify.TypeProposalAccepted,
		Title:      "Candidature acceptée",
		Message:    "Votre proposition a été acceptée.",
		ProjectID:  p.ProjectID,
		ProposalID: p.ID,
	})
	logging.NewLogger(ctx).LogInfof(op, "proposal %s accepted, artist %s assigned to %s", p.ID, p.Artist.ID, p.ProjectID)
	return p, nil
}

// Reject declines a pending proposal. feedback is sent to the artist and
// must not be blank.
func (s *ProposalService) Reject(ctx context.Context, ownerID, id, feedback string) (p *domain.Proposal, err error) {
	const op = "proposals.reject"
	defer func() { metrics.ProposalDecisions.WithLabelValues("reject", metrics.Result(err)).Inc() }()

	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, domain.ErrFeedbackRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	p, err = s.store.Reject(ctx, id, ownerID, feedback)
	if err != nil {
		return nil, classify(op, err)
	}

	s.notify(ctx, op, p.Artist.ID, notify.Notification{
		Type:       notify.TypeProposalRejected,
		Title:      "Candidature rejetée",
		Message:    feedback,
		ProjectID:  p.ProjectID,
		ProposalID: p.ID,
	})
	return p, nil
}

// StartChat opens a conversation with the artist of a proposal the caller
// owns, whatever its status.
func (s *ProposalService) StartChat(ctx context.Context, ownerID, id string) (*Chat, error) {
	const op = "proposals.chat"

	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(op, err)
	}
	if p.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}

	s.notify(ctx, op, p.Artist.ID, notify.Notification{
		Type:       notify.TypeChatStarted,
		Title:      "Chat démarré",
		Message:    "Le propriétaire du mur souhaite échanger avec vous.",
		ProjectID:  p.ProjectID,
		ProposalID: p.ID,
	})
	return &Chat{
		ProposalID: p.ID,
		ArtistID:   p.Artist.ID,
		ArtistName: p.Artist.Name,
		Message:    fmt.Sprintf("Conversation créée avec %s.", p.Artist.Name),
	}, nil
}

// notify never fails the decision that triggered it.
func (s *ProposalService) notify(ctx context.Context, op, userID string, n notify.Notification) {
	if s.notifier == nil || userID == "" {
		return
	}
	if err := s.notifier.Notify(ctx, userID, n); err != nil {
		logging.NewLogger(ctx).LogWarnf(op, "notify %s: %v", userID, err)
	}
}

// classify keeps domain errors as they are and reports anything else as a
// storage outage.
func classify(op string, err error) error {
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	return apperr.Unavailable(op, err)
}
