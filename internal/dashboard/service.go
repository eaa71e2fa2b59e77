// Package dashboard assembles the signed-in user's home view.
package dashboard

import (
	"context"
	"errors"
	"strings"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
	"github.com/wxllspace/wxllspace-backend/internal/logging"
	projects "github.com/wxllspace/wxllspace-backend/internal/projects/domain"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

const maxFullName = 120

type Projects interface {
	OwnerOverview(ctx context.Context, ownerID string) ([]projects.Project, projects.OwnerTotals, error)
	ArtistOverview(ctx context.Context, artistID string) ([]projects.Project, projects.ArtistTotals, error)
}

type Profiles interface {
	GetProfile(ctx context.Context, identityID string) (*users.Profile, error)
	UpdateFullName(ctx context.Context, identityID, fullName string) (*users.Profile, error)
}

// Inbox counts unread notifications, shown as the messages tile.
type Inbox interface {
	Count(ctx context.Context, userID string) (int, error)
}

type Passwords interface {
	ChangePassword(ctx context.Context, identityID, password string) error
}

// Onboarding is shown to identities that have neither role record.
type Onboarding struct {
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Roles   []string `json:"roles"`
}

var onboarding = Onboarding{
	Title:   "Bienvenue sur WXLLSPACE",
	Message: "Choisissez votre profil pour accéder à votre tableau de bord.",
	Roles:   []string{string(users.RoleArtist), string(users.RoleWallOwner)},
}

// View is the role-dependent dashboard. Exactly one of ArtistTotals,
// OwnerTotals and Onboarding is set.
type View struct {
	Role          users.Role             `json:"role"`
	Title         string                 `json:"title"`
	Projects      []projects.Project     `json:"projects"`
	ArtistTotals  *projects.ArtistTotals `json:"artist_totals,omitempty"`
	OwnerTotals   *projects.OwnerTotals  `json:"owner_totals,omitempty"`
	MessagesCount int                    `json:"messages_count"`
	Onboarding    *Onboarding            `json:"onboarding,omitempty"`
}

type Service struct {
	projects  Projects
	profiles  Profiles
	inbox     Inbox
	passwords Passwords
}

func NewService(p Projects, profiles Profiles, inbox Inbox, passwords Passwords) *Service {
	return &Service{projects: p, profiles: profiles, inbox: inbox, passwords: passwords}
}

// Overview builds the dashboard for the identity's role.
func (s *Service) Overview(ctx context.Context, identityID string, role users.Role) (*View, error) {
	const op = "dashboard.overview"

	switch role {
	case users.RoleArtist:
		list, totals, err := s.projects.ArtistOverview(ctx, identityID)
		if err != nil {
			return nil, err
		}
		return &View{
			Role:          role,
			Title:         "Dashboard Artiste",
			Projects:      list,
			ArtistTotals:  &totals,
			MessagesCount: s.messages(ctx, identityID),
		}, nil
	case users.RoleWallOwner:
		list, totals, err := s.projects.OwnerOverview(ctx, identityID)
		if err != nil {
			return nil, err
		}
		return &View{
			Role:          role,
			Title:         "Dashboard Propriétaire",
			Projects:      list,
			OwnerTotals:   &totals,
			MessagesCount: s.messages(ctx, identityID),
		}, nil
	case users.RoleNone:
		o := onboarding
		return &View{Role: role, Title: o.Title, Projects: []projects.Project{}, Onboarding: &o}, nil
	}
	return nil, apperr.New(apperr.KindInternal, op, "unknown role "+string(role))
}

// messages is 0 when the inbox cannot be read.
func (s *Service) messages(ctx context.Context, identityID string) int {
	n, err := s.inbox.Count(ctx, identityID)
	if err != nil {
		logging.NewLogger(ctx).LogError("dashboard.messages", err)
		return 0
	}
	return n
}

func (s *Service) Profile(ctx context.Context, identityID string) (*users.Profile, error) {
	const op = "dashboard.profile"
	p, err := s.profiles.GetProfile(ctx, identityID)
	if err != nil {
		return nil, profileError(op, err)
	}
	return p, nil
}

// UpdateProfile renames the user. The name is trimmed and must not be blank.
func (s *Service) UpdateProfile(ctx context.Context, identityID, fullName string) (*users.Profile, error) {
	const op = "dashboard.update_profile"

	name := strings.TrimSpace(fullName)
	switch {
	case name == "":
		return nil, apperr.Validation(op, "full name is required")
	case len([]rune(name)) > maxFullName:
		return nil, apperr.Validation(op, "full name is too long")
	}

	p, err := s.profiles.UpdateFullName(ctx, identityID, name)
	if err != nil {
		return nil, profileError(op, err)
	}
	return p, nil
}

func (s *Service) ChangePassword(ctx context.Context, identityID, password string) error {
	return s.passwords.ChangePassword(ctx, identityID, password)
}

func profileError(op string, err error) error {
	if errors.Is(err, users.ErrProfileNotFound) {
		return apperr.Wrap(apperr.KindNotFound, op, err)
	}
	return apperr.Unavailable(op, err)
}
