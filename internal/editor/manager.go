package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
	"resume-builder/resume/validation"
)

var (
	// ErrNotFound indicates the session does not exist or belongs to another user.
	ErrNotFound = errors.New("session not found")

	// ErrSessionClosed is returned for operations on a session that was closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrInvalidInput indicates a bad step key or request value.
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 30 * time.Minute

// Session is a snapshot of one editing session.
type Session struct {
	ID         string       `json:"sessionId"`
	UserID     string       `json:"-"`
	ResumeID   string       `json:"resumeId,omitempty"`
	Record     model.Record `json:"record"`
	CreatedAt  time.Time    `json:"createdAt"`
	LastActive time.Time    `json:"lastActive"`
}

type session struct {
	Session
	preview *render.Preview
}

type tombstone struct {
	userID   string
	closedAt time.Time
}

func (s *session) snapshot() Session {
	out := s.Session
	out.Record = s.Record.Clone()
	return out
}

// Manager keeps editing sessions in memory. Every session owns a preview
// whose photo handle is revoked when the session is closed or swept.
type Manager struct {
	mu       sync.Mutex
	issuer   render.HandleIssuer
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*session
	closed   map[string]tombstone
}

// NewManager creates a manager issuing photo handles through issuer.
func NewManager(issuer render.HandleIssuer, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		issuer:   issuer,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
		closed:   make(map[string]tombstone),
	}
}

// TTL returns the idle timeout.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create opens a session seeded with rec, which is normalized with the
// combined schema first.
func (m *Manager) Create(userID, resumeID string, seed model.Record) (Session, error) {
	if strings.TrimSpace(userID) == "" {
		return Session{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	clean, err := validation.Resume.Validate(seed)
	if err != nil {
		return Session{}, err
	}

	now := m.now()
	s := &session{
		Session: Session{
			ID:         uuid.NewString(),
			UserID:     userID,
			ResumeID:   resumeID,
			Record:     clean,
			CreatedAt:  now,
			LastActive: now,
		},
		preview: render.NewPreview(m.issuer),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	metrics.IncSessionOpened()
	telemetry.Info("editor.session_opened", map[string]any{"session_id": s.ID, "user_id": userID, "resume_id": resumeID})
	return s.snapshot(), nil
}

// Get returns the current session state.
func (m *Manager) Get(userID, id string) (Session, error) {
	return m.update(userID, id, func(*session) error { return nil })
}

// ApplyStep validates values with the step schema and assigns only the
// step's fields. On failure the session is left untouched.
func (m *Manager) ApplyStep(userID, id, stepKey string, values model.Record) (Session, error) {
	step, ok := StepByKey(stepKey)
	if !ok {
		return Session{}, fmt.Errorf("%w: unknown step %q", ErrInvalidInput, stepKey)
	}
	clean, err := step.Schema.Validate(values)
	if err != nil {
		return Session{}, err
	}
	return m.update(userID, id, func(s *session) error {
		step.Schema.Assign(&s.Record, clean)
		return nil
	})
}

// SetPhoto installs a pending photo.
func (m *Manager) SetPhoto(userID, id string, blob model.PhotoBlob) (Session, error) {
	photo := model.PendingPhoto(blob.Data, strings.ToLower(strings.TrimSpace(blob.ContentType)), blob.Size)
	if errs := validation.CheckPhotoUpload("photo", photo.Blob.ContentType, photo.Blob.Size); len(errs) > 0 {
		return Session{}, &validation.ValidationError{Errors: errs}
	}
	return m.update(userID, id, func(s *session) error {
		s.Record.Photo = photo
		return nil
	})
}

// RemovePhoto marks the photo as cleared.
func (m *Manager) RemovePhoto(userID, id string) (Session, error) {
	return m.update(userID, id, func(s *session) error {
		s.Record.Photo = model.RemovedPhoto()
		return nil
	})
}

// SetColor sets the accent color.
func (m *Manager) SetColor(userID, id, colorHex string) (Session, error) {
	clean, err := validation.Style.Validate(model.Record{ColorHex: colorHex})
	if err != nil {
		return Session{}, err
	}
	return m.update(userID, id, func(s *session) error {
		s.Record.ColorHex = clean.ColorHex
		return nil
	})
}

// CycleBorderStyle advances the border style: square, round, squircle, square.
func (m *Manager) CycleBorderStyle(userID, id string) (Session, error) {
	return m.update(userID, id, func(s *session) error {
		s.Record.BorderStyle = s.Record.BorderStyle.Next()
		return nil
	})
}

// MarkSaved records that the session was persisted as resumeID with the
// saved record, which carries a stored photo instead of a pending one.
func (m *Manager) MarkSaved(userID, id, resumeID string, saved model.Record) (Session, error) {
	return m.update(userID, id, func(s *session) error {
		s.ResumeID = resumeID
		s.Record = saved.Clone()
		return nil
	})
}

// Preview renders the session record at width. A pending photo is shown
// through the session's live handle.
func (m *Manager) Preview(userID, id string, width float64) (render.Document, error) {
	var doc render.Document
	_, err := m.update(userID, id, func(s *session) error {
		doc = s.preview.Render(s.Record, width)
		return nil
	})
	if err != nil {
		return render.Document{}, err
	}
	metrics.IncPreviewRendered()
	return doc, nil
}

// PhotoHandle returns the live handle of the session preview, if any.
func (m *Manager) PhotoHandle(userID, id string) (render.Handle, bool, error) {
	var (
		h  render.Handle
		ok bool
	)
	_, err := m.update(userID, id, func(s *session) error {
		h, ok = s.preview.Handle()
		return nil
	})
	return h, ok, err
}

// Close tears the session down and revokes its photo handle. Closing a
// closed session is a no-op.
func (m *Manager) Close(userID, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		t, gone := m.closed[id]
		m.mu.Unlock()
		if !ok && gone && t.userID == userID {
			return nil
		}
		return ErrNotFound
	}
	delete(m.sessions, id)
	m.closed[id] = tombstone{userID: userID, closedAt: m.now()}
	m.mu.Unlock()

	m.teardown(s, "closed")
	return nil
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were closed. Closed-session markers older than the TTL are forgotten.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	for id, t := range m.closed {
		if now.Sub(t.closedAt) > m.ttl {
			delete(m.closed, id)
		}
	}
	var expired []*session
	for id, s := range m.sessions {
		if now.Sub(s.LastActive) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
			m.closed[id] = tombstone{userID: s.UserID, closedAt: now}
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.teardown(s, "expired")
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(m.now()); n > 0 {
				telemetry.Info("editor.sessions_swept", map[string]any{"count": n})
			}
		}
	}
}

// Len reports the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) update(userID, id string, fn func(*session) error) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		if t, gone := m.closed[id]; gone && t.userID == userID {
			return Session{}, ErrSessionClosed
		}
		return Session{}, ErrNotFound
	}
	if s.UserID != userID {
		return Session{}, ErrNotFound
	}
	if err := fn(s); err != nil {
		return Session{}, err
	}
	s.LastActive = m.now()
	return s.snapshot(), nil
}

func (m *Manager) teardown(s *session, reason string) {
	s.preview.Close()
	metrics.IncSessionClosed()
	telemetry.Info("editor.session_closed", map[string]any{"session_id": s.ID, "reason": reason})
}
