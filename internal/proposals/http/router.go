package http

import (
	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

// Register mounts proposal submission for artists and the review
// workflow for wall owners.
func (h *Handler) Register(rg *gin.RouterGroup) {
	owner := middleware.RequireRole(users.RoleWallOwner)
	artist := middleware.RequireRole(users.RoleArtist)

	rg.GET("/projects/:id/proposals", owner, h.list)
	rg.POST("/projects/:id/proposals", artist, h.submit)

	g := rg.Group("/proposals", owner)
	g.POST("/:id/accept", h.accept)
	g.POST("/:id/reject", h.reject)
	g.POST("/:id/chat", h.chat)
}
