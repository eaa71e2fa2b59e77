package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/api/http/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches GET /stats. The route is public.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/stats", h.get)
}

func (h *Handler) get(c *gin.Context) {
	respond.OK(c, http.StatusOK, gin.H{"stats": h.svc.Get(c.Request.Context())})
}
