package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/api/http/respond"
	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type profileRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

// Register attaches the dashboard routes. All of them need a session.
func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/dashboard", middleware.RequireSession())
	g.GET("", h.overview)
	g.GET("/profile", h.profile)
	g.PUT("/profile", h.updateProfile)
	g.PUT("/password", h.changePassword)
}

func (h *Handler) overview(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	v, err := h.svc.Overview(c.Request.Context(), sess.Identity.ID, sess.Role)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"dashboard": v})
}

func (h *Handler) profile(c *gin.Context) {
	p, err := h.svc.Profile(c.Request.Context(), middleware.IdentityID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"profile": p})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	p, err := h.svc.UpdateProfile(c.Request.Context(), middleware.IdentityID(c), body.FullName)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"profile": p, "message": "Profil mis à jour"})
}

func (h *Handler) changePassword(c *gin.Context) {
	var body passwordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), middleware.IdentityID(c), body.Password); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"message": "Mot de passe modifié"})
}
