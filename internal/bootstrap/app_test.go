package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:               "0",
		CORSAllowOrigin:    []string{"http://localhost:5173"},
		LocalStoreDir:      t.TempDir(),
		Env:                "dev",
		ObjectStoreType:    "local",
		PhotoHandleBaseURL: "/api/v1/photo-handles/",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func serve(app *bootstrap.App, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func TestBuildWiresMemoryDefaults(t *testing.T) {
	app := buildApp(t)
	assert.Nil(t, app.DB)
	assert.NotNil(t, app.ResumeHandler)
	assert.NotNil(t, app.EditorHandler)
	assert.Nil(t, app.UploadHandler)
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	_, err := bootstrap.Build(config.Config{Env: "production", LocalStoreDir: t.TempDir()})
	assert.Error(t, err)
}

func TestHealthIsPublic(t *testing.T) {
	app := buildApp(t)
	resp := serve(app, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"database":"memory"`)
}

func TestResumesRequireIdentity(t *testing.T) {
	app := buildApp(t)
	resp := serve(app, httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestEditorToSavedResumeFlow(t *testing.T) {
	app := buildApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/editor/sessions", strings.NewReader(`{"record": {"firstName": "Ada"}}`))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := serve(app, req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var session struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/editor/sessions/"+session.SessionID+"/save", nil)
	addGuestHeader(req)
	resp = serve(app, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	addGuestHeader(req)
	resp = serve(app, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var list []struct {
		ResumeID string `json:"resumeId"`
		FullName string `json:"fullName"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].FullName)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	req.Header.Set("X-Guest-Id", "someone-else")
	resp = serve(app, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestBearerTokenIdentity(t *testing.T) {
	app := buildApp(t)
	token, err := auth.SignJWT(auth.Claims{
		Email:            "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "google:1"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := serve(app, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "ada@example.com")
	assert.Contains(t, resp.Body.String(), "google:1")
}

func TestMetricsEndpoint(t *testing.T) {
	app := buildApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", bytes.NewReader([]byte(`{"borderStyle": "oval"}`)))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := serve(app, req)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "resume_rejected_total")
	assert.Contains(t, resp.Body.String(), "photo_handles_live")
}
