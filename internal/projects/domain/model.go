package domain

import (
	"errors"
	"math"
	"time"
)

var ErrNotFound = errors.New("project not found")

// Status is where a project stands in its lifecycle.
type Status string

const (
	StatusSearching  Status = "searching"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSearching, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label is the status as shown on the dashboards.
func (s Status) Label() string {
	switch s {
	case StatusSearching:
		return "En recherche"
	case StatusInProgress:
		return "En cours"
	case StatusCompleted:
		return "Terminé"
	}
	return string(s)
}

// Active reports whether the project still needs attention from its owner.
func (s Status) Active() bool {
	return s == StatusSearching || s == StatusInProgress
}

// ArtistRef names the artist assigned to a project.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is a published wall looking for, or worked on by, an artist.
type Project struct {
	ID         string     `json:"id"`
	WallID     string     `json:"wall_id"`
	OwnerID    string     `json:"owner_id"`
	Title      string     `json:"title"`
	Status     Status     `json:"status"`
	Progress   int        `json:"progress"`
	Budget     int        `json:"budget"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	Location   string     `json:"location"`
	WallSize   string     `json:"wall_size"`
	Artist     *ArtistRef `json:"artist,omitempty"`
	Applicants int        `json:"applicants"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DaysRemaining counts whole days from now until the deadline, never below
// zero. ok is false when the project has no deadline.
func (p Project) DaysRemaining(now time.Time) (days int, ok bool) {
	if p.Deadline == nil {
		return 0, false
	}
	d := p.Deadline.Sub(now).Hours() / 24
	if d <= 0 {
		return 0, true
	}
	return int(math.Ceil(d)), true
}

// ClampProgress bounds a progress percentage to [0, 100].
func ClampProgress(p int) int {
	return min(max(p, 0), 100)
}

type EventKind string

const (
	EventMessage    EventKind = "message"
	EventQuote      EventKind = "quote"
	EventAcceptance EventKind = "acceptance"
	EventMilestone  EventKind = "milestone"
	EventCompletion EventKind = "completion"
)

type EventStatus string

const (
	EventCompleted EventStatus = "completed"
	EventCurrent   EventStatus = "current"
	EventUpcoming  EventStatus = "upcoming"
)

// Event is one entry of a project timeline.
type Event struct {
	ID          int64       `json:"id"`
	Kind        EventKind   `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      EventStatus `json:"status"`
	OccurredAt  time.Time   `json:"date"`
}

// Timeline is a project with its events in chronological order.
type Timeline struct {
	Project       Project `json:"project"`
	DaysRemaining *int    `json:"days_remaining,omitempty"`
	Events        []Event `json:"events"`
}

// OwnerTotals are the headline numbers of a wall owner dashboard.
type OwnerTotals struct {
	Walls             int `json:"total_walls"`
	ActiveProjects    int `json:"active_projects"`
	Spent             int `json:"total_spent"`
	PendingApplicants int `json:"pending_applicants"`
}

// ArtistTotals are the headline numbers of an artist dashboard.
type ArtistTotals struct {
	Projects  int `json:"total_projects"`
	Completed int `json:"completed_projects"`
	Earnings  int `json:"total_earnings"`
}
