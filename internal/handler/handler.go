package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pixhost/internal/domain"
	"pixhost/internal/preview"
	"pixhost/internal/service"
)

type Handler struct {
	service service.UploadService
	preview *preview.Rewriter
	log     *zap.Logger
}

func NewHandler(service service.UploadService, preview *preview.Rewriter, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		preview: preview,
		log:     log,
	}
}

// UploadImage accepts a multipart form with an "image" part, runs the
// ingestion pipeline and returns the short link.
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"kind":    domain.ErrKindValidation,
			"error":   "no image file provided",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.log.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to read upload",
		})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.log.Error("Failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to read upload",
		})
		return
	}

	result, err := h.service.Upload(c.Request.Context(), domain.UploadInput{
		Data:        data,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"url":           result.URL,
		"imageId":       result.ID,
		"originalSize":  result.OriginalSize,
		"processedSize": result.ProcessedSize,
	})
}

// CheckImage reports whether the object behind a short id exists.
func (h *Handler) CheckImage(c *gin.Context) {
	id := c.Param("id")

	ok, err := h.service.Exists(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"exists": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": true, "url": h.service.StorageURL(id)})
}

// DeleteImage removes the stored object. Deleting an absent key still
// returns 204; the operation is idempotent end to end.
func (h *Handler) DeleteImage(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ViewImage serves the viewer page for a short id with social-preview
// metadata pointed at the stored asset.
func (h *Handler) ViewImage(c *gin.Context) {
	id := c.Param("id")

	imageURL := h.service.StorageURL(id)
	pageURL := h.service.PageURL(service.WithExt(id))

	page, err := h.preview.Rewrite(imageURL, pageURL)
	if err != nil {
		h.log.Error("Failed to render viewer page",
			zap.String("id", id),
			zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}

	c.Header("X-Image-URL", imageURL)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GetUI(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// renderError maps the error classification to an HTTP status:
// validation is the client's fault, processing is the file's fault,
// upstream is ours.
func (h *Handler) renderError(c *gin.Context, err error) {
	kind := domain.KindOf(err)

	status := http.StatusBadGateway
	switch kind {
	case domain.ErrKindValidation:
		status = http.StatusBadRequest
	case domain.ErrKindProcessing:
		status = http.StatusUnprocessableEntity
	default:
		h.log.Error("Upstream failure", zap.Error(err))
	}

	c.JSON(status, gin.H{
		"success": false,
		"kind":    kind,
		"error":   domain.MessageOf(err),
	})
}
