package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/file"
)

type Handler struct {
	service file.Service
}

func NewHandler(service file.Service) *Handler {
	return &Handler{service: service}
}

func mapFileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, file.ErrNotFound), errors.Is(err, file.ErrNoThumbnail):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, file.ErrTooLarge), errors.Is(err, file.ErrTypeNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

const maxUploadBytes = 10 << 20 // 10 MiB

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := h.service.Upload(c.Request.Context(), file.UploadInput{
		FileHeader:   fileHeader,
		UserID:       auth.GetUserID(c),
		MaxSizeBytes: maxUploadBytes,
	})
	if err != nil {
		mapFileError(c, err)
		return
	}

	resp := FileUploadResponse{
		FileID: f.ID,
		URL:    file.FileURL(f.ID),
	}
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		resp.ThumbnailURL = &t
	}

	c.JSON(http.StatusCreated, resp)
}

// UploadAvatar accepts an image, resizes it, and stores it as the
// caller's profile picture.
func (h *Handler) UploadAvatar(c *gin.Context, afterUpload func(fileID string) error) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar is required"})
		return
	}

	f, err := h.service.Upload(c.Request.Context(), file.UploadInput{
		FileHeader:   fileHeader,
		UserID:       auth.GetUserID(c),
		MaxSizeBytes: maxUploadBytes,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
		ResizeImage:  true,
	})
	if err != nil {
		mapFileError(c, err)
		return
	}

	if afterUpload != nil {
		if err := afterUpload(f.ID); err != nil {
			_ = h.service.Delete(c.Request.Context(), f.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to attach avatar"})
			return
		}
	}

	resp := FileUploadResponse{
		FileID: f.ID,
		URL:    file.FileURL(f.ID),
	}
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		resp.ThumbnailURL = &t
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ServeFile(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	stream, info, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		mapFileError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", info.ContentType)
	c.Header("Content-Disposition", "inline; filename=\""+info.Filename+"\"")

	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, stream)
}

func (h *Handler) ServeThumbnail(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	stream, info, err := h.service.DownloadThumbnail(c.Request.Context(), id)
	if err != nil {
		mapFileError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", "inline; filename=\""+info.Filename+"_thumb.jpg\"")

	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, stream)
}
