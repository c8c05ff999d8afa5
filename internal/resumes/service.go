package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
	"resume-builder/resume/export"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
	"resume-builder/resume/validation"
)

// DefaultPhotoBase prefixes stored photo references served by the API.
const DefaultPhotoBase = "/api/v1/photos/"

// Service handles resume persistence, photo storage and renditions.
type Service struct {
	Repo      Repo
	Store     object.ObjectStore
	Exporter  export.Exporter
	PhotoBase string
	Now       func() time.Time
}

// NewService constructs a Service with default photo base and clock.
func NewService(repo Repo, store object.ObjectStore, exporter export.Exporter) *Service {
	return &Service{
		Repo:      repo,
		Store:     store,
		Exporter:  exporter,
		PhotoBase: DefaultPhotoBase,
		Now:       time.Now,
	}
}

// Save validates rec against the combined schema and persists it. An empty
// resumeID creates a new resume; otherwise the existing one is replaced.
// Pending photos are uploaded and replaced by a stored reference, removed
// photos are deleted, and an absent photo keeps whatever was saved before.
func (s *Service) Save(ctx context.Context, userID, resumeID string, rec model.Record) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	clean, err := validation.Resume.Validate(rec)
	if err != nil {
		metrics.IncResumeRejected()
		return Resume{}, err
	}

	now := s.now()
	var existing *Resume
	if resumeID != "" {
		found, err := s.Repo.GetByID(ctx, userID, resumeID)
		if err != nil {
			return Resume{}, err
		}
		existing = &found
	}

	resume := Resume{
		ID:        resumeID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing == nil {
		resume.ID = uuid.NewString()
	} else {
		resume.CreatedAt = existing.CreatedAt
	}

	staleKey, err := s.resolvePhoto(ctx, userID, &clean, &resume, existing)
	if err != nil {
		return Resume{}, err
	}

	clean.ID = resume.ID
	resume.Title = clean.Title
	resume.Content = clean

	if existing == nil {
		err = s.Repo.Create(ctx, resume)
	} else {
		err = s.Repo.Update(ctx, resume)
	}
	if err != nil {
		return Resume{}, err
	}

	if staleKey != "" {
		s.deletePhoto(ctx, staleKey)
	}
	metrics.IncResumeSaved()
	telemetry.Info("resume.saved", map[string]any{
		"resume_id": resume.ID,
		"user_id":   userID,
		"photo":     resume.Content.Photo.Kind.String(),
		"created":   existing == nil,
	})
	return resume, nil
}

// resolvePhoto settles the photo variant of rec into a stored reference or
// nothing, and reports the previously stored key that is no longer used.
func (s *Service) resolvePhoto(ctx context.Context, userID string, rec *model.Record, resume *Resume, existing *Resume) (string, error) {
	var previousKey string
	if existing != nil {
		previousKey = existing.PhotoKey
	}

	switch rec.Photo.Kind {
	case model.PhotoPending:
		if s.Store == nil {
			return "", errors.New("photo storage is not configured")
		}
		blob := rec.Photo.Blob
		obj, err := s.Store.Save(ctx, userID, photoFileName(blob.ContentType), bytes.NewReader(blob.Data))
		if err != nil {
			return "", fmt.Errorf("store photo: %w", err)
		}
		metrics.IncPhotoStored()
		rec.Photo = model.StoredPhoto(s.photoRef(obj.Key))
		resume.PhotoKey = obj.Key
	case model.PhotoRemoved:
		rec.Photo = model.NoPhoto()
		resume.PhotoKey = ""
	case model.PhotoStored:
		resume.PhotoKey = s.keyFromRef(userID, rec.Photo.Ref)
	default:
		if existing != nil {
			rec.Photo = existing.Content.Photo
			resume.PhotoKey = existing.PhotoKey
		}
	}

	if previousKey != "" && previousKey != resume.PhotoKey {
		return previousKey, nil
	}
	return "", nil
}

// Get returns a saved resume.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if strings.TrimSpace(resumeID) == "" {
		return Resume{}, fmt.Errorf("%w: resume id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// List returns a page of the user's resumes.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes a resume and its stored photo.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userID, resumeID); err != nil {
		return err
	}
	if resume.PhotoKey != "" {
		s.deletePhoto(ctx, resume.PhotoKey)
	}
	telemetry.Info("resume.deleted", map[string]any{"resume_id": resumeID, "user_id": userID})
	return nil
}

// Preview renders a saved resume at the given container width.
func (s *Service) Preview(ctx context.Context, userID, resumeID string, width float64) (render.Document, error) {
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return render.Document{}, err
	}
	metrics.IncPreviewRendered()
	return render.Render(resume.Content, width, resume.Content.Photo.Ref), nil
}

// Export is the downloadable rendition of a saved resume.
type Export struct {
	Data        []byte
	ContentType string
	FileName    string
}

// Export renders a saved resume at reference width and converts it to format.
func (s *Service) Export(ctx context.Context, userID, resumeID string, format export.Format) (Export, error) {
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return Export{}, err
	}

	start := time.Now()
	doc := render.Render(resume.Content, render.ReferenceWidth, resume.Content.Photo.Ref)
	data, contentType, err := s.Exporter.Export(ctx, doc, format)
	if err != nil {
		return Export{}, err
	}
	metrics.IncExport(string(format))
	metrics.ObserveExportDurationMs(metrics.SinceMillis(start))

	return Export{
		Data:        data,
		ContentType: contentType,
		FileName:    exportFileName(resume) + format.Extension(),
	}, nil
}

// OpenPhoto streams a stored photo by key.
func (s *Service) OpenPhoto(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.Store == nil {
		return nil, ErrNotFound
	}
	rc, err := s.Store.Open(ctx, key)
	if errors.Is(err, object.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rc, err
}

func (s *Service) deletePhoto(ctx context.Context, key string) {
	if s.Store == nil {
		return
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		telemetry.Warn("resume.photo_delete_failed", map[string]any{"key": key, "error": err})
	}
}

func (s *Service) photoRef(key string) string {
	return s.photoBase() + key
}

// keyFromRef returns the storage key behind a reference served by this API,
// or "" for external references and keys owned by another user.
func (s *Service) keyFromRef(userID, ref string) string {
	key, ok := strings.CutPrefix(ref, s.photoBase())
	if !ok || !util.OwnsKey(userID, key) {
		return ""
	}
	return key
}

func (s *Service) photoBase() string {
	if s.PhotoBase == "" {
		return DefaultPhotoBase
	}
	return s.PhotoBase
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func photoFileName(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return "photo.png"
	case "image/jpeg", "image/jpg":
		return "photo.jpg"
	case "image/gif":
		return "photo.gif"
	case "image/webp":
		return "photo.webp"
	default:
		return "photo"
	}
}

func exportFileName(resume Resume) string {
	name := resume.Content.FullName()
	if name == "" {
		name = resume.Title
	}
	if name == "" {
		return "resume"
	}
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	if sb.Len() == 0 {
		return "resume"
	}
	return sb.String()
}
