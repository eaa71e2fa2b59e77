package http

import "github.com/wxllspace/wxllspace-backend/internal/proposals/service"

type Handler struct {
	proposals *service.ProposalService
}

func New(proposals *service.ProposalService) *Handler {
	return &Handler{proposals: proposals}
}

type rejectRequest struct {
	Feedback string `json:"feedback"`
}
