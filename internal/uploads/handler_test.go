package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	owner       string
	contentType string
	err         error
}

func (f *fakePresigner) PresignPut(_ context.Context, owner, fileName, contentType string, _ time.Duration) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.owner = owner
	f.contentType = contentType
	return "abc/123_" + fileName, "https://bucket.s3.amazonaws.com/abc/123_" + fileName, nil
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func post(r *gin.Engine, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/photos/presign", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestPresignPhoto(t *testing.T) {
	presigner := &fakePresigner{}
	r := newRouter(NewHandler(presigner, "/api/v1/photos/"))

	resp := post(r, map[string]any{"fileName": "me.png", "contentType": "Image/PNG", "sizeBytes": 1024})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out presignResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "abc/123_me.png", out.StorageKey)
	assert.Equal(t, "/api/v1/photos/abc/123_me.png", out.PhotoRef)
	assert.Equal(t, int64(900), out.ExpiresInSeconds)
	assert.Equal(t, "user-1", presigner.owner)
	assert.Equal(t, "image/png", presigner.contentType)
}

func TestPresignPhotoRules(t *testing.T) {
	r := newRouter(NewHandler(&fakePresigner{}, "/api/v1/photos/"))

	resp := post(r, map[string]any{"fileName": "cv.pdf", "contentType": "application/pdf", "sizeBytes": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "InvalidFileType")

	resp = post(r, map[string]any{"fileName": "me.png", "contentType": "image/png", "sizeBytes": 4*1024*1024 + 1})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "FileTooLarge")

	resp = post(r, map[string]any{"contentType": "image/png", "sizeBytes": 10})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPresignPhotoUnavailable(t *testing.T) {
	r := newRouter(NewHandler(nil, "/api/v1/photos/"))
	resp := post(r, map[string]any{"fileName": "me.png", "contentType": "image/png", "sizeBytes": 10})
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)

	r = newRouter(NewHandler(&fakePresigner{err: errors.New("bad name")}, "/api/v1/photos/"))
	resp = post(r, map[string]any{"fileName": "me.png", "contentType": "image/png", "sizeBytes": 10})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
