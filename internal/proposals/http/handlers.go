package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/api/http/respond"
	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
	"github.com/wxllspace/wxllspace-backend/internal/proposals/service"
)

// list returns the project's proposals split for the pending and
// processed tabs.
func (h *Handler) list(c *gin.Context) {
	parts, err := h.proposals.List(c.Request.Context(), middleware.IdentityID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{
		"pending":   parts.Pending,
		"processed": parts.Processed,
	})
}

func (h *Handler) submit(c *gin.Context) {
	var body service.Submission
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	p, err := h.proposals.Submit(c.Request.Context(), middleware.IdentityID(c), c.Param("id"), body)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"proposal": p})
}

func (h *Handler) accept(c *gin.Context) {
	p, err := h.proposals.Accept(c.Request.Context(), middleware.IdentityID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"proposal": p, "message": "L'artiste a été notifié de votre acceptation."})
}

// reject accepts an empty body so a missing feedback is reported as a
// validation failure rather than a malformed request.
func (h *Handler) reject(c *gin.Context) {
	var body rejectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			respond.BadRequest(c, "invalid request body")
			return
		}
	}
	p, err := h.proposals.Reject(c.Request.Context(), middleware.IdentityID(c), c.Param("id"), body.Feedback)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"proposal": p, "message": "Votre feedback a été envoyé à l'artiste."})
}

func (h *Handler) chat(c *gin.Context) {
	chat, err := h.proposals.StartChat(c.Request.Context(), middleware.IdentityID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"chat": chat})
}
