package domain

import (
	"time"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
)

var (
	ErrNotFound         = apperr.New(apperr.KindNotFound, "proposals", "proposal not found")
	ErrProjectNotFound  = apperr.New(apperr.KindNotFound, "proposals", "project not found")
	ErrNotPending       = apperr.New(apperr.KindConflict, "proposals", "proposal has already been decided")
	ErrProjectClosed    = apperr.New(apperr.KindConflict, "proposals", "project is no longer looking for an artist")
	ErrAlreadyProposed  = apperr.New(apperr.KindConflict, "proposals", "you already have a pending proposal on this project")
	ErrFeedbackRequired = apperr.Validation("proposals.reject", "a feedback message is required to reject a proposal")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Terminal statuses never change again.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ArtistSummary is what a wall owner sees of the artist behind a proposal.
type ArtistSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Style             string `json:"style,omitempty"`
	CompletedProjects int    `json:"completed_projects"`
}

// Proposal is an artist's bid on a project.
type Proposal struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"project_id"`
	OwnerID     string        `json:"-"`
	Artist      ArtistSummary `json:"artist"`
	Budget      int           `json:"budget"`
	Timeline    string        `json:"timeline"`
	Message     string        `json:"message"`
	Portfolio   []string      `json:"portfolio"`
	SubmittedAt time.Time     `json:"submitted_at"`
	Status      Status        `json:"status"`
	Feedback    string        `json:"feedback,omitempty"`
	DecidedAt   *time.Time    `json:"decided_at,omitempty"`
}

// Partitioned splits proposals for the two review tabs.
type Partitioned struct {
	Pending   []Proposal `json:"pending"`
	Processed []Proposal `json:"processed"`
}

// Partition puts every proposal in exactly one of the two lists, keeping
// the input order within each.
func Partition(ps []Proposal) Partitioned {
	out := Partitioned{Pending: []Proposal{}, Processed: []Proposal{}}
	for _, p := range ps {
		if p.Status == StatusPending {
			out.Pending = append(out.Pending, p)
		} else {
			out.Processed = append(out.Processed, p)
		}
	}
	return out
}
