package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/api/http/respond"
	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
	"github.com/wxllspace/wxllspace-backend/internal/wizard"
)

func (h *Handler) Create(c *gin.Context) {
	v, err := h.svc.Create(c.Request.Context(), middleware.IdentityID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"draft": v})
}

func (h *Handler) List(c *gin.Context) {
	views, err := h.svc.List(c.Request.Context(), middleware.IdentityID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"drafts": views})
}

func (h *Handler) Get(c *gin.Context) {
	v, err := h.svc.Get(c.Request.Context(), middleware.IdentityID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"draft": v})
}

func (h *Handler) Update(c *gin.Context) {
	var p wizard.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	v, err := h.svc.Update(c.Request.Context(), middleware.IdentityID(c), c.Param("id"), p)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"draft": v})
}

func (h *Handler) Next(c *gin.Context) {
	v, err := h.svc.Next(c.Request.Context(), middleware.IdentityID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"draft": v})
}

func (h *Handler) Previous(c *gin.Context) {
	v, err := h.svc.Previous(c.Request.Context(), middleware.IdentityID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"draft": v})
}

// AddPhotos accepts one or more image files in the "photos" form field and
// appends them in upload order.
func (h *Handler) AddPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respond.BadRequest(c, "expected a multipart form")
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		respond.BadRequest(c, "no file in field photos")
		return
	}

	var view wizard.View
	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			respond.BadRequest(c, fh.Filename+" is not an image")
			return
		}
		if fh.Size > maxPhotoSize {
			respond.BadRequest(c, fh.Filename+" is larger than 10 MB")
			return
		}

		f, err := fh.Open()
		if err != nil {
			respond.BadRequest(c, "failed to read "+fh.Filename)
			return
		}
		view, err = h.svc.AddPhoto(c.Request.Context(), middleware.IdentityID(c), c.Param("id"), wizard.Upload{
			Name:        fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Body:        f,
		})
		f.Close()
		if err != nil {
			respond.Error(c, err)
			return
		}
	}
	respond.OK(c, http.StatusOK, gin.H{"draft": view})
}

func (h *Handler) RemovePhoto(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.BadRequest(c, "photo index must be an integer")
		return
	}
	v, err := h.svc.RemovePhoto(c.Request.Context(), middleware.IdentityID(c), c.Param("id"), index)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"draft": v})
}

func (h *Handler) Submit(c *gin.Context) {
	receipt, err := h.svc.Submit(c.Request.Context(), middleware.IdentityID(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"wall_id": receipt.WallID, "project_id": receipt.ProjectID})
}

// Cancel discards the draft.
func (h *Handler) Cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Request.Context(), middleware.IdentityID(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}
