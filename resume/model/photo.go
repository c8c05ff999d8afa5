package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// PhotoKind tags the state carried by a Photo.
type PhotoKind int

const (
	// PhotoNone means the field was never set; nothing is rendered.
	PhotoNone PhotoKind = iota
	// PhotoPending holds a local blob that has not been stored yet.
	PhotoPending
	// PhotoStored holds a reference that can be displayed directly.
	PhotoStored
	// PhotoRemoved marks a photo explicitly cleared by the user.
	PhotoRemoved
)

func (k PhotoKind) String() string {
	switch k {
	case PhotoPending:
		return "pending"
	case PhotoStored:
		return "stored"
	case PhotoRemoved:
		return "removed"
	default:
		return "none"
	}
}

// PhotoBlob is an uploaded image that still lives in memory.
type PhotoBlob struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Digest identifies the blob contents.
func (b PhotoBlob) Digest() string {
	h := sha256.New()
	h.Write([]byte(b.ContentType))
	h.Write([]byte{0})
	h.Write(b.Data)
	return hex.EncodeToString(h.Sum(nil))
}

// Photo is the tagged photo variant. Only the member matching Kind is meaningful.
type Photo struct {
	Kind PhotoKind
	Blob PhotoBlob
	Ref  string
}

// NoPhoto returns the absent photo.
func NoPhoto() Photo { return Photo{} }

// PendingPhoto wraps image bytes. Size is the declared size when known, otherwise len(data).
func PendingPhoto(data []byte, contentType string, size int64) Photo {
	if size <= 0 {
		size = int64(len(data))
	}
	return Photo{Kind: PhotoPending, Blob: PhotoBlob{Data: data, ContentType: contentType, Size: size}}
}

// StoredPhoto wraps a resolvable reference such as a URL.
func StoredPhoto(ref string) Photo {
	return Photo{Kind: PhotoStored, Ref: ref}
}

// RemovedPhoto returns the explicit "cleared" marker.
func RemovedPhoto() Photo { return Photo{Kind: PhotoRemoved} }

// IsZero reports whether the photo is absent. It drives omitzero encoding.
func (p Photo) IsZero() bool { return p.Kind == PhotoNone }

// Clone copies the blob bytes.
func (p Photo) Clone() Photo {
	out := p
	if p.Blob.Data != nil {
		out.Blob.Data = append([]byte(nil), p.Blob.Data...)
	}
	return out
}

// Equal compares two photos by kind and content.
func (p Photo) Equal(other Photo) bool {
	if p.Kind != other.Kind {
		return false
	}
	switch p.Kind {
	case PhotoPending:
		return p.Blob.ContentType == other.Blob.ContentType && p.Blob.Size == other.Blob.Size && bytes.Equal(p.Blob.Data, other.Blob.Data)
	case PhotoStored:
		return p.Ref == other.Ref
	default:
		return true
	}
}

// MarshalJSON encodes removed as null, stored as a string and pending as an object.
func (p Photo) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PhotoStored:
		return json.Marshal(p.Ref)
	case PhotoPending:
		return json.Marshal(p.Blob)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON. A missing key leaves the photo absent.
func (p *Photo) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("photo: empty value")
	}
	switch trimmed[0] {
	case 'n':
		*p = RemovedPhoto()
		return nil
	case '"':
		var ref string
		if err := json.Unmarshal(trimmed, &ref); err != nil {
			return fmt.Errorf("photo: %w", err)
		}
		if ref == "" {
			*p = RemovedPhoto()
			return nil
		}
		*p = StoredPhoto(ref)
		return nil
	case '{':
		var blob PhotoBlob
		if err := json.Unmarshal(trimmed, &blob); err != nil {
			return fmt.Errorf("photo: %w", err)
		}
		*p = PendingPhoto(blob.Data, blob.ContentType, blob.Size)
		return nil
	default:
		return fmt.Errorf("photo: unsupported value %s", string(trimmed))
	}
}
