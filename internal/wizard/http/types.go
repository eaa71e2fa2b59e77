package http

import "github.com/wxllspace/wxllspace-backend/internal/wizard"

// maxPhotoSize caps a single uploaded photo.
const maxPhotoSize = 10 << 20

type Handler struct {
	svc *wizard.Service
}

func New(svc *wizard.Service) *Handler {
	return &Handler{svc: svc}
}
