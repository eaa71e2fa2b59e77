package http

import (
	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

// Register mounts the wall wizard under rg. Only wall owners may use it.
func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/wall-drafts", middleware.RequireRole(users.RoleWallOwner))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Cancel)
	g.POST("/:id/next", h.Next)
	g.POST("/:id/previous", h.Previous)
	g.POST("/:id/photos", h.AddPhotos)
	g.DELETE("/:id/photos/:index", h.RemovePhoto)
	g.POST("/:id/submit", h.Submit)
}
