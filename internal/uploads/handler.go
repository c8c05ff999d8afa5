package uploads

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/validation"
)

const presignExpires = 15 * time.Minute

// Presigner issues direct-upload URLs into the photo store.
type Presigner interface {
	PresignPut(ctx context.Context, owner, fileName, contentType string, expires time.Duration) (storageKey string, url string, err error)
}

// Handler serves photo upload presigning.
type Handler struct {
	presign   Presigner
	photoBase string
}

// NewHandler builds a handler. photoBase is the public prefix stored photo
// references are built from, for example "/api/v1/photos/".
func NewHandler(presign Presigner, photoBase string) *Handler {
	return &Handler{presign: presign, photoBase: photoBase}
}

type presignRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	StorageKey       string `json:"storageKey"`
	PhotoRef         string `json:"photoRef"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// RegisterRoutes attaches upload routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/photos/presign", h.presignPhoto)
}

func (h *Handler) presignPhoto(c *gin.Context) {
	if h == nil || h.presign == nil {
		respond.Error(c, http.StatusServiceUnavailable, "uploads_unavailable", "direct uploads are not configured", nil)
		return
	}

	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if errs := validation.CheckPhotoUpload("photo", contentType, req.SizeBytes); len(errs) > 0 {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", errs[0].Message, errs)
		return
	}
	if req.SizeBytes == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "sizeBytes is required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	key, url, err := h.presign.PresignPut(c.Request.Context(), userID, strings.TrimSpace(req.FileName), contentType, presignExpires)
	if err != nil {
		telemetry.Error("uploads.presign.failed", map[string]any{
			"err":         err.Error(),
			"contentType": contentType,
			"sizeBytes":   req.SizeBytes,
			"request_id":  middleware.RequestIDFromContext(c),
		})
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid fileName", nil)
		return
	}

	respond.JSON(c, http.StatusOK, presignResponse{
		UploadURL:        url,
		StorageKey:       key,
		PhotoRef:         h.photoBase + key,
		ExpiresInSeconds: int64(presignExpires.Seconds()),
	})
}
