package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/database"
	"bitacora-backend/internal/handlers"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/models"
	"bitacora-backend/internal/server"
	"bitacora-backend/internal/services"
)

type stubUploader struct {
	mu      sync.Mutex
	failOn  int
	calls   int
	removed []string
}

func (u *stubUploader) Upload(ctx context.Context, payload assets.Payload, class assets.Classification) (assets.Object, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	if u.calls == u.failOn {
		return assets.Object{}, errors.New("bucket unavailable at 10.0.0.7")
	}
	key := assets.ObjectKey(class, payload.Filename, time.Now())
	return assets.Object{Key: key, URL: "https://cdn.test/" + key}, nil
}

func (u *stubUploader) Remove(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.removed = append(u.removed, key)
	return nil
}

type testEnv struct {
	router   *gin.Engine
	store    *database.MemoryStore
	uploader *stubUploader
	auth     *services.AuthService
	admin    string
	viewer   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithLimit(t, 8<<20)
}

func newTestEnvWithLimit(t *testing.T, maxUploadBytes int64) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Nop()
	store := database.NewMemoryStore()
	uploader := &stubUploader{}
	orchestrator := services.NewOrchestrator(store, uploader, log)
	auth := services.NewAuthService(store, "handler-test-secret", time.Hour, log)
	auth.SetHashCost(bcrypt.MinCost)

	_, err := auth.SeedAdmin(context.Background(), "admin-password")
	require.NoError(t, err)

	router := server.NewRouter(server.RouterConfig{
		Log:              log,
		Sessions:         auth,
		HealthHandler:    handlers.NewHealthHandler(store),
		AuthHandler:      handlers.NewAuthHandler(auth, log),
		ProjectsHandler:  handlers.NewProjectsHandler(orchestrator, maxUploadBytes, log),
		ClassLogsHandler: handlers.NewClassLogsHandler(orchestrator, log),
		MediaHandler:     handlers.NewMediaHandler(orchestrator, maxUploadBytes, log),
		PlansHandler:     handlers.NewPlansHandler(orchestrator, maxUploadBytes, log),
	})

	admin, _, err := auth.IssueSession(models.Identity{ID: uuid.New(), Name: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	viewer, _, err := auth.IssueSession(models.Identity{ID: uuid.New(), Name: "alice", Role: models.RoleViewer})
	require.NoError(t, err)

	return &testEnv{router: router, store: store, uploader: uploader, auth: auth, admin: admin, viewer: viewer}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return e.do(t, method, path, token, body, "application/json")
}

type formFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func jpeg(field, name string) formFile {
	return formFile{field: field, filename: name, contentType: "image/jpeg", data: []byte("\xff\xd8\xff" + name)}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
