package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
	"resume-builder/resume/render"
	"resume-builder/resume/validation"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n0000IHDR")

func newTestManager(t *testing.T) (*Manager, *render.HandleRegistry, *time.Time) {
	t.Helper()
	registry := render.NewHandleRegistry("/api/v1/photo-handles/")
	m := NewManager(registry, time.Minute)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	return m, registry, &clock
}

func TestStepsCatalog(t *testing.T) {
	keys := make([]string, 0, len(Steps))
	for _, s := range Steps {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"general-info", "personal-info", "work-experience", "education", "skills", "summary"}, keys)

	step, ok := StepByKey("general-info")
	require.True(t, ok)
	assert.Equal(t, []string{"title", "description"}, step.Fields)

	_, ok = StepByKey("style")
	assert.False(t, ok)
}

func TestCreateNormalizesSeed(t *testing.T) {
	m, _, _ := newTestManager(t)

	s, err := m.Create("user-1", "", model.Record{FirstName: "  Ada "})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Ada", s.Record.FirstName)
	assert.Equal(t, 1, m.Len())

	_, err = m.Create("user-1", "", model.Record{BorderStyle: "oval"})
	_, ok := validation.AsValidationError(err)
	assert.True(t, ok)

	_, err = m.Create(" ", "", model.Record{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestApplyStepOnlyChangesStepFields(t *testing.T) {
	m, _, _ := newTestManager(t)
	s, err := m.Create("user-1", "", model.Record{FirstName: "Ada", Summary: "Keep me"})
	require.NoError(t, err)

	updated, err := m.ApplyStep("user-1", s.ID, "general-info", model.Record{
		Title:     " Backend ",
		FirstName: "Ignored",
		Summary:   "Ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend", updated.Record.Title)
	assert.Equal(t, "Ada", updated.Record.FirstName)
	assert.Equal(t, "Keep me", updated.Record.Summary)
}

func TestApplyStepInvalidLeavesSessionUntouched(t *testing.T) {
	m, _, _ := newTestManager(t)
	s, err := m.Create("user-1", "", model.Record{
		WorkExperiences: []model.WorkExperience{{Position: "Dev", StartDate: "2020-01"}},
	})
	require.NoError(t, err)

	_, err = m.ApplyStep("user-1", s.ID, "work-experience", model.Record{
		WorkExperiences: []model.WorkExperience{{Position: "Dev", StartDate: "soon"}},
	})
	verr, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"workExperiences[0].startDate"}, verr.Paths())

	got, err := m.Get("user-1", s.ID)
	require.NoError(t, err)
	assert.Equal(t, "2020-01", got.Record.WorkExperiences[0].StartDate)

	_, err = m.ApplyStep("user-1", s.ID, "nope", model.Record{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestSessionsAreScopedToUser(t *testing.T) {
	m, _, _ := newTestManager(t)
	s, err := m.Create("user-1", "", model.Record{})
	require.NoError(t, err)

	_, err = m.Get("user-2", s.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(m.Close("user-2", s.ID), ErrNotFound))
}

func TestSetPhotoValidatesUpload(t *testing.T) {
	m, _, _ := newTestManager(t)
	s, err := m.Create("user-1", "", model.Record{})
	require.NoError(t, err)

	_, err = m.SetPhoto("user-1", s.ID, model.PhotoBlob{Data: []byte("%PDF"), ContentType: "application/pdf"})
	verr, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, validation.CodeInvalidFileType, verr.Errors[0].Code)

	updated, err := m.SetPhoto("user-1", s.ID, model.PhotoBlob{Data: pngBytes, ContentType: "Image/PNG"})
	require.NoError(t, err)
	assert.Equal(t, model.PhotoPending, updated.Record.Photo.Kind)
	assert.Equal(t, "image/png", updated.Record.Photo.Blob.ContentType)
	assert.Equal(t, int64(len(pngBytes)), updated.Record.Photo.Blob.Size)
}

func TestPreviewHandleLifecycle(t *testing.T) {
	m, registry, _ := newTestManager(t)
	s, err := m.Create("user-1", "", model.Record{FirstName: "Ada"})
	require.NoError(t, err)

	_, err = m.SetPhoto("user-1", s.ID, model.PhotoBlob{Data: pngBytes, ContentType: "image/png"})
	require.NoError(t, err)

	doc, err := m.Preview("user-1", s.ID, render.ReferenceWidth)
	require.NoError(t, err)
	header, ok := doc.Section(render.SectionHeader)
	require.True(t, ok)
	require.NotNil(t, header.Header.Photo)
	assert.Contains(t, header.Header.Photo.Src, "/api/v1/photo-handles/")
	assert.Equal(t, 1, registry.Live())

	h, ok, err := m.PhotoHandle("user-1", s.ID)
	require.NoError(t, err)
	require.True(t, ok)
	blob, ok := registry.Open(h.ID)
	require.True(t, ok)
	assert.Equal(t, pngBytes, blob.Data)

	_, err = m.Preview("user-1", s.ID, render.ReferenceWidth)
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Live())

	_, err = m.RemovePhoto("user-1", s.ID)
	require.NoError(t, err)
	doc, err = m.Preview("user-1", s.ID, render.ReferenceWidth)
	require.NoError(t, err)
	header, _ = doc.Section(render.SectionHeader)
	assert.Nil(t, header.Header.Photo)
	assert.Equal(t, 0, registry.Live())
}

func TestApplyPersonalInfoWithoutPhotoKeepsPending(t *testing.T) {
	m, registry, _ := newTestManager(t)
	s, err := m.Create("user-1", "", model.Record{})
	require.NoError(t, err)
	_, err = m.SetPhoto("user-1", s.ID, model.PhotoBlob{Data: pngBytes, ContentType: "image/png"})
	require.NoError(t, err)
	_, err = m.Preview("user-1", s.ID, render.ReferenceWidth)
	require.NoError(t, err)
	require.Equal(t, 1, registry.Live())

	updated, err := m.ApplyStep("user-1", s.ID, "personal-info", model.Record{FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Record.FirstName)
	assert.Equal(t, model.PhotoPending, updated.Record.Photo.Kind)

	doc, err := m.Preview("user-1", s.ID, render.ReferenceWidth)
	require.NoError(t, err)
	header, _ := doc.Section(render.SectionHeader)
	require.NotNil(t, header.Header.Photo)
	assert.Equal(t, 1, registry.Live())
}

func TestCloseRevokesHandle(t *testing.T) {
	m, registry, _ := newTestManager(t)
	s, err := m.Create("user-1", "", model.Record{})
	require.NoError(t, err)
	_, err = m.SetPhoto("user-1", s.ID, model.PhotoBlob{Data: pngBytes, ContentType: "image/png"})
	require.NoError(t, err)
	_, err = m.Preview("user-1", s.ID, 100)
	require.NoError(t, err)
	require.Equal(t, 1, registry.Live())

	require.NoError(t, m.Close("user-1", s.ID))
	assert.Equal(t, 0, registry.Live())
	assert.Equal(t, 0, m.Len())

	_, err = m.Get("user-1", s.ID)
	assert.True(t, errors.Is(err, ErrSessionClosed))
	assert.NoError(t, m.Close("user-1", s.ID))
}

func TestSetColorAndCycleBorderStyle(t *testing.T) {
	m, _, _ := newTestManager(t)
	s, err := m.Create("user-1", "", model.Record{})
	require.NoError(t, err)

	updated, err := m.SetColor("user-1", s.ID, " #336699 ")
	require.NoError(t, err)
	assert.Equal(t, "#336699", updated.Record.ColorHex)

	var seen []model.BorderStyle
	for range 4 {
		updated, err = m.CycleBorderStyle("user-1", s.ID)
		require.NoError(t, err)
		seen = append(seen, updated.Record.BorderStyle)
	}
	assert.Equal(t, []model.BorderStyle{model.BorderRound, model.BorderSquircle, model.BorderSquare, model.BorderRound}, seen)
}

func TestSweepClosesIdleSessions(t *testing.T) {
	m, registry, clock := newTestManager(t)

	idle, err := m.Create("user-1", "", model.Record{})
	require.NoError(t, err)
	_, err = m.SetPhoto("user-1", idle.ID, model.PhotoBlob{Data: pngBytes, ContentType: "image/png"})
	require.NoError(t, err)
	_, err = m.Preview("user-1", idle.ID, 100)
	require.NoError(t, err)

	*clock = clock.Add(50 * time.Second)
	active, err := m.Create("user-1", "", model.Record{})
	require.NoError(t, err)

	assert.Equal(t, 1, m.Sweep(clock.Add(20*time.Second)))
	assert.Equal(t, 0, registry.Live())

	_, err = m.Get("user-1", idle.ID)
	assert.True(t, errors.Is(err, ErrSessionClosed))
	_, err = m.Get("user-1", active.ID)
	assert.NoError(t, err)

	m.Sweep(clock.Add(10 * time.Minute))
	_, err = m.Get("user-1", idle.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMarkSavedReplacesRecord(t *testing.T) {
	m, _, _ := newTestManager(t)
	s, err := m.Create("user-1", "", model.Record{})
	require.NoError(t, err)

	updated, err := m.MarkSaved("user-1", s.ID, "resume-1", model.Record{Photo: model.StoredPhoto("/api/v1/photos/k.png")})
	require.NoError(t, err)
	assert.Equal(t, "resume-1", updated.ResumeID)
	assert.Equal(t, model.PhotoStored, updated.Record.Photo.Kind)
}
