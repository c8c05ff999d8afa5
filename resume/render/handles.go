package render

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"resume-builder/resume/model"
)

// Handle is a temporary, revocable display reference for a pending photo blob.
type Handle struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// HandleIssuer creates and revokes display handles.
type HandleIssuer interface {
	Issue(blob model.PhotoBlob) Handle
	Revoke(h Handle)
}

// PhotoSlot owns at most one live handle. Installing a new source always
// revokes the previous handle first, and Close revokes whatever is left.
type PhotoSlot struct {
	mu     sync.Mutex
	issuer HandleIssuer
	live   *Handle
	digest string
	src    string
	closed bool
}

// NewPhotoSlot creates an empty slot backed by issuer.
func NewPhotoSlot(issuer HandleIssuer) *PhotoSlot {
	return &PhotoSlot{issuer: issuer}
}

// Set resolves photo to a display source and returns it. Setting the same
// pending blob again keeps the current handle.
func (s *PhotoSlot) Set(photo model.Photo) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ""
	}

	switch photo.Kind {
	case model.PhotoPending:
		digest := photo.Blob.Digest()
		if s.live != nil && s.digest == digest {
			return s.src
		}
		s.releaseLocked()
		h := s.issuer.Issue(photo.Blob)
		s.live = &h
		s.digest = digest
		s.src = h.URL
	case model.PhotoStored:
		s.releaseLocked()
		s.src = photo.Ref
	default:
		s.releaseLocked()
		s.src = ""
	}
	return s.src
}

// Src returns the current display source.
func (s *PhotoSlot) Src() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src
}

// Live returns the handle currently held, if any.
func (s *PhotoSlot) Live() (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return Handle{}, false
	}
	return *s.live, true
}

// Close revokes the live handle. Later calls to Set resolve nothing.
func (s *PhotoSlot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
	s.src = ""
	s.closed = true
}

func (s *PhotoSlot) releaseLocked() {
	if s.live == nil {
		return
	}
	s.issuer.Revoke(*s.live)
	s.live = nil
	s.digest = ""
}

// Preview couples a photo slot with Render for one editing surface.
type Preview struct {
	slot *PhotoSlot
}

// NewPreview creates a preview whose pending photos are displayed through issuer.
func NewPreview(issuer HandleIssuer) *Preview {
	return &Preview{slot: NewPhotoSlot(issuer)}
}

// Render resolves the record photo and renders the document.
func (p *Preview) Render(rec model.Record, width float64) Document {
	src := p.slot.Set(rec.Photo)
	return Render(rec, width, src)
}

// Handle returns the live photo handle, if any.
func (p *Preview) Handle() (Handle, bool) {
	return p.slot.Live()
}

// Close tears the preview down and releases its handle.
func (p *Preview) Close() {
	p.slot.Close()
}

// HandleRegistry is an in-memory HandleIssuer that also serves the blobs it issued.
type HandleRegistry struct {
	mu      sync.RWMutex
	baseURL string
	blobs   map[string]model.PhotoBlob
}

// NewHandleRegistry creates a registry whose handle URLs start with baseURL.
func NewHandleRegistry(baseURL string) *HandleRegistry {
	if baseURL == "" {
		baseURL = "blob:"
	}
	return &HandleRegistry{
		baseURL: baseURL,
		blobs:   make(map[string]model.PhotoBlob),
	}
}

// Issue registers blob and returns its handle.
func (r *HandleRegistry) Issue(blob model.PhotoBlob) Handle {
	id := uuid.NewString()
	r.mu.Lock()
	r.blobs[id] = blob
	r.mu.Unlock()
	return Handle{ID: id, URL: joinURL(r.baseURL, id)}
}

// Revoke forgets the handle. Revoking twice is a no-op.
func (r *HandleRegistry) Revoke(h Handle) {
	r.mu.Lock()
	delete(r.blobs, h.ID)
	r.mu.Unlock()
}

// Open returns the blob behind a live handle id.
func (r *HandleRegistry) Open(id string) (model.PhotoBlob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	blob, ok := r.blobs[id]
	return blob, ok
}

// Live reports how many handles are currently issued.
func (r *HandleRegistry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs)
}

func joinURL(base, id string) string {
	if strings.HasSuffix(base, "/") || strings.HasSuffix(base, ":") {
		return base + id
	}
	return base + "/" + id
}
