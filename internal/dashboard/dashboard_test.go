package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
	"github.com/wxllspace/wxllspace-backend/internal/auth/authtest"
	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
	projects "github.com/wxllspace/wxllspace-backend/internal/projects/domain"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

type fakeProjects struct{ err error }

func (f fakeProjects) OwnerOverview(_ context.Context, ownerID string) ([]projects.Project, projects.OwnerTotals, error) {
	if f.err != nil {
		return nil, projects.OwnerTotals{}, f.err
	}
	return []projects.Project{{ID: "project-10000-0001", OwnerID: ownerID, Status: projects.StatusSearching}},
		projects.OwnerTotals{Walls: 3, ActiveProjects: 2, Spent: 6500, PendingApplicants: 4}, nil
}

func (f fakeProjects) ArtistOverview(_ context.Context, artistID string) ([]projects.Project, projects.ArtistTotals, error) {
	if f.err != nil {
		return nil, projects.ArtistTotals{}, f.err
	}
	return []projects.Project{{ID: "project-10000-0002", Status: projects.StatusInProgress, Artist: &projects.ArtistRef{ID: artistID}}},
		projects.ArtistTotals{Projects: 12, Completed: 8, Earnings: 15600}, nil
}

type fakeProfiles map[string]*users.Profile

func (f fakeProfiles) GetProfile(_ context.Context, id string) (*users.Profile, error) {
	p, ok := f[id]
	if !ok {
		return nil, users.ErrProfileNotFound
	}
	return p, nil
}

func (f fakeProfiles) UpdateFullName(_ context.Context, id, name string) (*users.Profile, error) {
	p, ok := f[id]
	if !ok {
		return nil, users.ErrProfileNotFound
	}
	p.FullName = name
	p.UpdatedAt = time.Now()
	return p, nil
}

type fakeInbox struct {
	n   int
	err error
}

func (f fakeInbox) Count(context.Context, string) (int, error) { return f.n, f.err }

var testUsers = map[string]authtest.User{
	"artist-tok": {ID: "a1", Email: "julie@wxll.fr", Role: users.RoleArtist},
	"owner-tok":  {ID: "o1", Email: "thomas@wxll.fr", Role: users.RoleWallOwner},
	"none-tok":   {ID: "n1", Email: "new@wxll.fr", Role: users.RoleNone},
}

func newService(p Projects, inbox Inbox) *Service {
	profiles := fakeProfiles{
		"o1": {ID: "o1", Email: "thomas@wxll.fr", FullName: "Thomas Moreau"},
	}
	return NewService(p, profiles, inbox, authtest.NewService(testUsers))
}

func TestOverviewByRole(t *testing.T) {
	svc := newService(fakeProjects{}, fakeInbox{n: 7})
	ctx := context.Background()

	artist, err := svc.Overview(ctx, "a1", users.RoleArtist)
	require.NoError(t, err)
	require.NotNil(t, artist.ArtistTotals)
	assert.Nil(t, artist.OwnerTotals)
	assert.Equal(t, 15600, artist.ArtistTotals.Earnings)
	assert.Equal(t, 7, artist.MessagesCount)

	owner, err := svc.Overview(ctx, "o1", users.RoleWallOwner)
	require.NoError(t, err)
	require.NotNil(t, owner.OwnerTotals)
	assert.Nil(t, owner.ArtistTotals)
	assert.Equal(t, "o1", owner.Projects[0].OwnerID)

	none, err := svc.Overview(ctx, "n1", users.RoleNone)
	require.NoError(t, err)
	require.NotNil(t, none.Onboarding)
	assert.Empty(t, none.Projects)
	assert.NotNil(t, none.Projects)
}

func TestOverviewToleratesInboxFailure(t *testing.T) {
	svc := newService(fakeProjects{}, fakeInbox{err: errors.New("redis down")})

	v, err := svc.Overview(context.Background(), "o1", users.RoleWallOwner)
	require.NoError(t, err)
	assert.Zero(t, v.MessagesCount)
}

func TestOverviewPropagatesProjectErrors(t *testing.T) {
	svc := newService(fakeProjects{err: apperr.Unavailable("projects.owner_overview", errors.New("timeout"))}, fakeInbox{})

	_, err := svc.Overview(context.Background(), "o1", users.RoleWallOwner)
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	svc := newService(fakeProjects{}, fakeInbox{})
	ctx := context.Background()

	p, err := svc.UpdateProfile(ctx, "o1", "  Thomas M.  ")
	require.NoError(t, err)
	assert.Equal(t, "Thomas M.", p.FullName)

	_, err = svc.UpdateProfile(ctx, "o1", "   ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.UpdateProfile(ctx, "ghost", "Ghost")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestChangePasswordAppliesPolicy(t *testing.T) {
	svc := newService(fakeProjects{}, fakeInbox{})

	err := svc.ChangePassword(context.Background(), "o1", "weak")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.NoError(t, svc.ChangePassword(context.Background(), "o1", "Sup3rSecret!"))
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Authenticate(authtest.NewService(testUsers)))
	NewHandler(newService(fakeProjects{}, fakeInbox{n: 5})).Register(r.Group("/api/v1"))
	return r
}

func do(r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestHandlerRequiresSession(t *testing.T) {
	w, _ := do(setupRouter(), http.MethodGet, "/api/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlerOverview(t *testing.T) {
	r := setupRouter()

	w, body := do(r, http.MethodGet, "/api/v1/dashboard", "owner-tok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := body["dashboard"].(map[string]any)
	assert.Equal(t, "wall_owner", dash["role"])
	assert.Equal(t, float64(5), dash["messages_count"])
	assert.Contains(t, dash, "owner_totals")
	assert.NotContains(t, dash, "artist_totals")

	_, body = do(r, http.MethodGet, "/api/v1/dashboard", "none-tok", nil)
	assert.Contains(t, body["dashboard"].(map[string]any), "onboarding")
}

func TestHandlerProfile(t *testing.T) {
	r := setupRouter()

	w, body := do(r, http.MethodGet, "/api/v1/dashboard/profile", "owner-tok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Thomas Moreau", body["profile"].(map[string]any)["full_name"])

	w, _ = do(r, http.MethodGet, "/api/v1/dashboard/profile", "artist-tok", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(r, http.MethodPut, "/api/v1/dashboard/profile", "owner-tok", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(r, http.MethodPut, "/api/v1/dashboard/profile", "owner-tok", map[string]string{"full_name": "T. Moreau"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T. Moreau", body["profile"].(map[string]any)["full_name"])
}

func TestHandlerPassword(t *testing.T) {
	r := setupRouter()

	w, body := do(r, http.MethodPut, "/api/v1/dashboard/password", "artist-tok", map[string]string{"password": "short"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, false, body["ok"])

	w, _ = do(r, http.MethodPut, "/api/v1/dashboard/password", "artist-tok", map[string]string{"password": "Sup3rSecret!"})
	assert.Equal(t, http.StatusOK, w.Code)
}
