// Package site serves the public pages as JSON view models, one per
// client route.
package site

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/api/http/respond"
	"github.com/wxllspace/wxllspace-backend/internal/apperr"
	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
	"github.com/wxllspace/wxllspace-backend/internal/catalog"
	"github.com/wxllspace/wxllspace-backend/internal/dashboard"
	"github.com/wxllspace/wxllspace-backend/internal/stats"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

const featuredCount = 3

type Stats interface {
	Get(ctx context.Context) stats.Stats
}

type Dashboards interface {
	Overview(ctx context.Context, identityID string, role users.Role) (*dashboard.View, error)
}

type Handler struct {
	catalog    *catalog.Catalog
	stats      Stats
	dashboards Dashboards
}

func New(c *catalog.Catalog, st Stats, d Dashboards) *Handler {
	return &Handler{catalog: c, stats: st, dashboards: d}
}

// Register mounts the page routes at the root of r and installs the JSON
// 404 for everything else.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/artistes", h.artists)
	r.GET("/artistes/:id", h.artist)
	r.GET("/murs", h.walls)
	r.GET("/murs/:id", h.wall)
	r.GET("/carte", h.mapView)
	r.GET("/comment-ca-marche", h.howItWorks)
	r.GET("/a-propos", h.about)
	r.GET("/dashboard", h.dashboard)
	r.NoRoute(notFound)
}

func (h *Handler) home(c *gin.Context) {
	// Signed-in visitors are sent to their dashboard by the join buttons.
	cta := "/?auth=signup"
	if _, ok := middleware.CurrentSession(c); ok {
		cta = "/dashboard"
	}

	artists := h.catalog.Artists(catalog.ArtistFilter{})
	walls := h.catalog.Walls(catalog.WallFilter{})
	respond.OK(c, http.StatusOK, gin.H{
		"view":             "home",
		"stats":            h.stats.Get(c.Request.Context()),
		"featured_artists": artists[:min(featuredCount, len(artists))],
		"featured_walls":   walls[:min(featuredCount, len(walls))],
		"join_href":        cta,
	})
}

func (h *Handler) artists(c *gin.Context) {
	var f catalog.ArtistFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		respond.BadRequest(c, "invalid filter")
		return
	}
	facets := h.catalog.Facets()
	respond.OK(c, http.StatusOK, gin.H{
		"view":        "artists",
		"artists":     h.catalog.Artists(f),
		"specialties": facets.Specialties,
		"locations":   facets.Locations,
	})
}

func (h *Handler) artist(c *gin.Context) {
	a, ok := h.catalog.Artist(strings.TrimSpace(c.Param("id")))
	if !ok {
		respond.Error(c, apperr.New(apperr.KindNotFound, "site.artist", "artist not found"))
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"view": "artist", "artist": a})
}

func (h *Handler) walls(c *gin.Context) {
	var f catalog.WallFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		respond.BadRequest(c, "invalid filter")
		return
	}
	respond.OK(c, http.StatusOK, gin.H{
		"view":       "walls",
		"walls":      h.catalog.Walls(f),
		"wall_types": h.catalog.Facets().WallTypes,
	})
}

func (h *Handler) wall(c *gin.Context) {
	w, ok := h.catalog.Wall(strings.TrimSpace(c.Param("id")))
	if !ok {
		respond.Error(c, apperr.New(apperr.KindNotFound, "site.wall", "wall not found"))
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"view": "wall", "wall": w})
}

func (h *Handler) mapView(c *gin.Context) {
	layer, err := catalog.ParseLayer(c.Query("filter"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{
		"view":    "map",
		"filter":  layer,
		"markers": h.catalog.Markers(layer, c.Query("city")),
	})
}

func (h *Handler) howItWorks(c *gin.Context) {
	respond.OK(c, http.StatusOK, gin.H{"view": "how_it_works", "page": howItWorks})
}

func (h *Handler) about(c *gin.Context) {
	respond.OK(c, http.StatusOK, gin.H{"view": "about", "page": about})
}

// dashboard never renders without an identity: anonymous visitors are
// redirected to the home page.
func (h *Handler) dashboard(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	v, err := h.dashboards.Overview(c.Request.Context(), sess.Identity.ID, sess.Role)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"view": "dashboard", "dashboard": v})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "page not found", "path": c.Request.URL.Path})
}
