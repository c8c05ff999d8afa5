package resumes

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/export"
	"resume-builder/resume/render"
	"resume-builder/resume/schema"
	"resume-builder/resume/validation"
)

// maxRecordSize bounds a record body, which may carry a pending photo inline.
const maxRecordSize = 8 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.create)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.delete)
	rg.GET("/resumes/:id/preview", h.preview)
	rg.GET("/resumes/:id/export", h.export)
}

// RegisterPublicRoutes attaches routes that are fetched by <img> tags and
// therefore carry no credentials.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/photos/*key", h.photo)
}

func (h *Handler) create(c *gin.Context) {
	h.save(c, "", http.StatusCreated)
}

func (h *Handler) update(c *gin.Context) {
	h.save(c, c.Param("id"), http.StatusOK)
}

func (h *Handler) save(c *gin.Context, resumeID string, status int) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRecordSize)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "request body too large", nil)
		return
	}

	rec, err := schema.Decode(body)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resume, err := h.Svc.Save(c.Request.Context(), userID, resumeID, rec)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.JSON(c, status, toResponse(resume))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resume, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := make([]ResumeSummary, 0, len(items))
	for _, item := range items {
		resp = append(resp, toSummary(item))
	}
	respond.OK(c, resp)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) preview(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	width := render.ReferenceWidth
	if v := c.Query("width"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "width must be a non-negative number", nil)
			return
		}
		width = parsed
	}

	doc, err := h.Svc.Preview(c.Request.Context(), userID, c.Param("id"), width)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, doc)
}

func (h *Handler) export(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatPDF)))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	out, err := h.Svc.Export(c.Request.Context(), userID, c.Param("id"), format)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.Attachment(c, out.FileName, out.ContentType, out.Data)
}

func (h *Handler) photo(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		respond.Error(c, http.StatusNotFound, "not_found", "photo not found", nil)
		return
	}

	rc, err := h.Svc.OpenPhoto(c.Request.Context(), key)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read photo", nil)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if verr, ok := validation.AsValidationError(err); ok {
		respond.Validation(c, "resume is invalid", verr)
		return
	}
	switch {
	case errors.Is(err, schema.ErrMalformed):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "access denied", nil)
	case errors.Is(err, export.ErrUnsupportedFormat):
		respond.Error(c, http.StatusBadRequest, "unsupported_format", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil)
	}
}
