package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/api/http/respond"
	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
)

func (h *Handler) get(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), middleware.IdentityID(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"project": p})
}

func (h *Handler) timeline(c *gin.Context) {
	tl, err := h.projects.Timeline(c.Request.Context(), middleware.IdentityID(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{
		"project":        tl.Project,
		"status_label":   tl.Project.Status.Label(),
		"days_remaining": tl.DaysRemaining,
		"events":         tl.Events,
	})
}
