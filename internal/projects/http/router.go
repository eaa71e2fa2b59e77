package http

import (
	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
)

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/projects", middleware.RequireSession())
	g.GET("/:id", h.get)
	g.GET("/:id/timeline", h.timeline)
}
