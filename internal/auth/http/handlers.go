package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/api/http/respond"
	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
	"github.com/wxllspace/wxllspace-backend/internal/session"
)

// SignUp creates the identity with its role and profile records and returns
// the signed-in session.
func (h *Handler) SignUp(c *gin.Context) {
	var body session.SignUpInput
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}

	store := h.store(c)
	sess, err := store.SignUp(c.Request.Context(), body)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, http.StatusCreated, gin.H{
		"session": store.Snapshot(),
		"token":   sess.Token,
	})
}

func (h *Handler) SignIn(c *gin.Context) {
	var body signInRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}

	store := h.store(c)
	sess, err := store.SignIn(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, http.StatusOK, gin.H{
		"session": store.Snapshot(),
		"token":   sess.Token,
	})
}

// SignOut always succeeds for the caller.
func (h *Handler) SignOut(c *gin.Context) {
	store := h.store(c)
	store.SignOut(c.Request.Context())
	respond.OK(c, http.StatusOK, gin.H{"session": store.Snapshot()})
}

// Session reports the current session, anonymous or not.
func (h *Handler) Session(c *gin.Context) {
	respond.OK(c, http.StatusOK, gin.H{"session": middleware.Store(c).Snapshot()})
}

// store reuses the request's store so sign-out revokes the presented token;
// sign-in and sign-up start from a store bound to this service.
func (h *Handler) store(c *gin.Context) *session.Store {
	st := middleware.Store(c)
	if st.Session() != nil {
		return st
	}
	return session.NewStore(h.sessions)
}
