package notify

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/api/http/respond"
	"github.com/wxllspace/wxllspace-backend/internal/apperr"
	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
)

type Handler struct {
	pub *Publisher
}

func NewHandler(pub *Publisher) *Handler {
	return &Handler{pub: pub}
}

// Register mounts the inbox and the live stream for the signed-in user.
func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/notifications", middleware.RequireSession())
	g.GET("", h.inbox)
	g.GET("/stream", h.stream)
}

func (h *Handler) inbox(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.pub.Inbox(c.Request.Context(), middleware.IdentityID(c), limit)
	if err != nil {
		respond.Error(c, apperr.Unavailable("notify.inbox", err))
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"notifications": items})
}

// stream relays live notifications as server-sent events.
func (h *Handler) stream(c *gin.Context) {
	ch, err := h.pub.Subscribe(c.Request.Context(), middleware.IdentityID(c))
	if err != nil {
		respond.Error(c, apperr.Unavailable("notify.stream", err))
		return
	}
	c.Stream(func(w io.Writer) bool {
		n, ok := <-ch
		if !ok {
			return false
		}
		c.SSEvent(n.Type, n)
		return true
	})
}
