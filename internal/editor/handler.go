package editor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
	"resume-builder/resume/validation"
)

// maxStepBodySize caps the JSON body of a step update.
const maxStepBodySize = 8 << 20

// ResumeStore loads and persists saved resumes for sessions.
type ResumeStore interface {
	Get(ctx context.Context, userID, resumeID string) (resumes.Resume, error)
	Save(ctx context.Context, userID, resumeID string, rec model.Record) (resumes.Resume, error)
}

// BlobSource serves the bytes behind a photo handle.
type BlobSource interface {
	Open(id string) (model.PhotoBlob, bool)
}

// Handler wires HTTP handlers to the session manager.
type Handler struct {
	Sessions *Manager
	Resumes  ResumeStore
	Blobs    BlobSource
}

// NewHandler constructs a Handler.
func NewHandler(sessions *Manager, store ResumeStore, blobs BlobSource) *Handler {
	return &Handler{Sessions: sessions, Resumes: store, Blobs: blobs}
}

// RegisterRoutes attaches editor routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/editor/steps", h.steps)
	rg.POST("/editor/sessions", h.create)
	rg.GET("/editor/sessions/:id", h.get)
	rg.DELETE("/editor/sessions/:id", h.close)
	rg.PUT("/editor/sessions/:id/steps/:step", h.applyStep)
	rg.PUT("/editor/sessions/:id/photo", h.setPhoto)
	rg.DELETE("/editor/sessions/:id/photo", h.removePhoto)
	rg.PUT("/editor/sessions/:id/color", h.setColor)
	rg.POST("/editor/sessions/:id/border-style/next", h.cycleBorderStyle)
	rg.GET("/editor/sessions/:id/preview", h.preview)
	rg.POST("/editor/sessions/:id/save", h.save)
}

// RegisterPublicRoutes attaches the photo handle route, which is fetched by
// <img> tags and carries no credentials.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/photo-handles/:id", h.photoHandle)
}

type photoState struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref,omitempty"`
}

type sessionResponse struct {
	SessionID  string       `json:"sessionId"`
	ResumeID   string       `json:"resumeId,omitempty"`
	Record     model.Record `json:"record"`
	Photo      photoState   `json:"photoState"`
	CreatedAt  time.Time    `json:"createdAt"`
	LastActive time.Time    `json:"lastActive"`
}

// toResponse keeps pending photo bytes out of the response; the preview
// exposes them through a handle instead.
func toResponse(s Session) sessionResponse {
	rec := s.Record
	state := photoState{Kind: rec.Photo.Kind.String(), Ref: rec.Photo.Ref}
	if rec.Photo.Kind == model.PhotoPending {
		rec.Photo = model.NoPhoto()
	}
	return sessionResponse{
		SessionID:  s.ID,
		ResumeID:   s.ResumeID,
		Record:     rec,
		Photo:      state,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive,
	}
}

func (h *Handler) steps(c *gin.Context) {
	respond.OK(c, Steps)
}

type createRequest struct {
	ResumeID string       `json:"resumeId"`
	Record   model.Record `json:"record"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	seed := req.Record
	if req.ResumeID != "" {
		if h.Resumes == nil {
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", "saved resumes are not configured", nil)
			return
		}
		saved, err := h.Resumes.Get(c.Request.Context(), userID, req.ResumeID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		seed = saved.Content
	}

	s, err := h.Sessions.Create(userID, req.ResumeID, seed)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.Created(c, toResponse(s))
}

func (h *Handler) get(c *gin.Context) {
	s, err := h.Sessions.Get(middleware.UserIDFromContext(c), c.Param("id"))
	h.writeSession(c, s, err)
}

func (h *Handler) close(c *gin.Context) {
	if err := h.Sessions.Close(middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) applyStep(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxStepBodySize)

	var values model.Record
	if err := c.ShouldBindJSON(&values); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "request body too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	s, err := h.Sessions.ApplyStep(middleware.UserIDFromContext(c), c.Param("id"), c.Param("step"), values)
	h.writeSession(c, s, err)
}

func (h *Handler) setPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, validation.MaxPhotoBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, validation.MaxPhotoBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	blob := model.PhotoBlob{Data: data, ContentType: contentType, Size: fileHeader.Size}
	s, err := h.Sessions.SetPhoto(middleware.UserIDFromContext(c), c.Param("id"), blob)
	h.writeSession(c, s, err)
}

func (h *Handler) removePhoto(c *gin.Context) {
	s, err := h.Sessions.RemovePhoto(middleware.UserIDFromContext(c), c.Param("id"))
	h.writeSession(c, s, err)
}

type colorRequest struct {
	ColorHex string `json:"colorHex"`
}

func (h *Handler) setColor(c *gin.Context) {
	var req colorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	s, err := h.Sessions.SetColor(middleware.UserIDFromContext(c), c.Param("id"), req.ColorHex)
	h.writeSession(c, s, err)
}

func (h *Handler) cycleBorderStyle(c *gin.Context) {
	s, err := h.Sessions.CycleBorderStyle(middleware.UserIDFromContext(c), c.Param("id"))
	h.writeSession(c, s, err)
}

func (h *Handler) preview(c *gin.Context) {
	width := render.ReferenceWidth
	if v := c.Query("width"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "width must be a non-negative number", nil)
			return
		}
		width = parsed
	}

	doc, err := h.Sessions.Preview(middleware.UserIDFromContext(c), c.Param("id"), width)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, doc)
}

func (h *Handler) save(c *gin.Context) {
	if h.Resumes == nil {
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", "saved resumes are not configured", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	sessionID := c.Param("id")

	s, err := h.Sessions.Get(userID, sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	saved, err := h.Resumes.Save(c.Request.Context(), userID, s.ResumeID, s.Record)
	if err != nil {
		h.writeError(c, err)
		return
	}

	s, err = h.Sessions.MarkSaved(userID, sessionID, saved.ID, saved.Content)
	h.writeSession(c, s, err)
}

func (h *Handler) photoHandle(c *gin.Context) {
	if h.Blobs == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "photo not found", nil)
		return
	}
	blob, ok := h.Blobs.Open(c.Param("id"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "photo not found", nil)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}

func (h *Handler) writeSession(c *gin.Context, s Session, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toResponse(s))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if verr, ok := validation.AsValidationError(err); ok {
		respond.Validation(c, "invalid values", verr)
		return
	}
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, resumes.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrSessionClosed):
		respond.Error(c, http.StatusGone, "session_closed", "editing session was closed", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, resumes.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "access denied", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil)
	}
}
