package http

import "github.com/wxllspace/wxllspace-backend/internal/session"

type Handler struct {
	sessions *session.Service
}

func New(sessions *session.Service) *Handler {
	return &Handler{sessions: sessions}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
