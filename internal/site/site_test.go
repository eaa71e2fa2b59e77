package site

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxllspace/wxllspace-backend/internal/auth/authtest"
	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
	"github.com/wxllspace/wxllspace-backend/internal/catalog"
	"github.com/wxllspace/wxllspace-backend/internal/dashboard"
	"github.com/wxllspace/wxllspace-backend/internal/stats"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

type fixedStats stats.Stats

func (f fixedStats) Get(context.Context) stats.Stats { return stats.Stats(f) }

type roleEcho struct{}

func (roleEcho) Overview(_ context.Context, _ string, role users.Role) (*dashboard.View, error) {
	return &dashboard.View{Role: role}, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, err := catalog.Load()
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.Authenticate(authtest.NewService(map[string]authtest.User{
		"artist-tok": {ID: "a1", Role: users.RoleArtist},
	})))
	New(c, fixedStats{Artists: 18, Walls: 25, Projects: 1200}, roleEcho{}).Register(r)
	return r
}

func get(r http.Handler, path, token string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestHome(t *testing.T) {
	r := setupRouter(t)

	w, body := get(r, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["featured_artists"], 3)
	assert.Len(t, body["featured_walls"], 3)
	assert.Equal(t, float64(1200), body["stats"].(map[string]any)["projects_count"])
	assert.Equal(t, "/?auth=signup", body["join_href"])

	_, body = get(r, "/", "artist-tok")
	assert.Equal(t, "/dashboard", body["join_href"])
}

func TestArtistListingFilters(t *testing.T) {
	r := setupRouter(t)

	_, body := get(r, "/artistes?specialty=Graffiti", "")
	assert.Len(t, body["artists"], 2)

	_, body = get(r, "/artistes?q=toulouse&specialty=all&location=all", "")
	require.Len(t, body["artists"], 1)
	assert.Equal(t, "Julie Dubois", body["artists"].([]any)[0].(map[string]any)["name"])

	_, body = get(r, "/artistes?q=nobody", "")
	assert.Equal(t, []any{}, body["artists"])
}

func TestProfiles(t *testing.T) {
	r := setupRouter(t)

	w, body := get(r, "/artistes/7f3c2a1e-4b5d-4e8f-9a0b-1c2d3e4f5a61", "")
	require.Equal(t, http.StatusOK, w.Code)
	profile := body["artist"].(map[string]any)["profile"].(map[string]any)
	assert.Len(t, profile["reviews"], 3)

	w, _ = get(r, "/artistes/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = get(r, "/murs/a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c51", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Façade Restaurant Le Graffiti", body["wall"].(map[string]any)["title"])

	w, _ = get(r, "/murs/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWallListing(t *testing.T) {
	_, body := get(setupRouter(t), "/murs?type=Ext%C3%A9rieur&location=Paris", "")
	assert.Len(t, body["walls"], 1)
}

func TestMap(t *testing.T) {
	r := setupRouter(t)

	_, body := get(r, "/carte?filter=walls&city=lyon", "")
	require.Len(t, body["markers"], 1)
	assert.Equal(t, "wall", body["markers"].([]any)[0].(map[string]any)["type"])

	w, _ := get(r, "/carte?filter=galleries", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestStaticPages(t *testing.T) {
	r := setupRouter(t)

	_, body := get(r, "/comment-ca-marche", "")
	assert.Len(t, body["page"].(map[string]any)["steps"], 4)

	_, body = get(r, "/a-propos", "")
	assert.Len(t, body["page"].(map[string]any)["team"], 3)
}

func TestDashboardRedirectsAnonymous(t *testing.T) {
	r := setupRouter(t)

	w, _ := get(r, "/dashboard", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w, body := get(r, "/dashboard", "artist-tok")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "artist", body["dashboard"].(map[string]any)["role"])
}

func TestNotFound(t *testing.T) {
	w, body := get(setupRouter(t), "/galerie", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/galerie", body["path"])
}
