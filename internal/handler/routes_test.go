package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"docum/internal/app"
	"docum/internal/config"
	models "docum/internal/domain/models/docsystem"
	"docum/internal/handler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := app.New(context.Background(), &config.Config{
		StoreDriver:     config.DriverMemory,
		TablePrefix:     "test_",
		VersionRollover: config.DefaultVersionRollover,
		UserCacheSize:   8,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return handler.NewRouter(handler.Services{
		Users:     a.UserService,
		Folders:   a.FolderService,
		Documents: a.DocumentService,
		Trees:     a.TreeService,
		Activity:  a.ActivityService,
	}, "http://localhost:3000", logger)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createUser(t *testing.T, h http.Handler) *models.User {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/users", map[string]string{
		"user_name": "sakyazici",
		"email":     "sakyazici@example.com",
		"name":      "Serkan",
		"surname":   "Akyazici",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[*models.User](t, rec)
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUserLifecycle(t *testing.T) {
	h := newServer(t)
	u := createUser(t, h)

	rec := do(t, h, http.MethodPost, "/api/users", map[string]string{
		"user_name": "sakyazici",
		"email":     "other@example.com",
		"name":      "Other",
		"surname":   "Person",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	problem := decode[map[string]any](t, rec)
	assert.Equal(t, "user", problem["resource_type"])
	assert.Equal(t, []any{"user_name"}, problem["fields"])

	rec = do(t, h, http.MethodDelete, "/api/users/"+u.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users/"+u.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[*models.User](t, rec).IsDeleted)

	rec = do(t, h, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]*models.User](t, rec))
}

func TestTreeRoutes(t *testing.T) {
	h := newServer(t)
	u := createUser(t, h)
	base := "/api/users/" + u.ID

	rec := do(t, h, http.MethodPost, base+"/folders", map[string]string{"name": "f1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	f1 := decode[*models.Folder](t, rec)

	rec = do(t, h, http.MethodPatch, base+"/folders/"+f1.ID, map[string]string{"name": "xxxx"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "xxxx", decode[*models.Folder](t, rec).Name)

	rec = do(t, h, http.MethodPost, base+"/folders/"+f1.ID+"/documents", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	doc := decode[*models.Document](t, rec)

	rec = do(t, h, http.MethodPut, base+"/documents/"+doc.ID, map[string]string{"content": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[*models.Document](t, rec)
	assert.Equal(t, "hello", updated.Content)
	assert.Equal(t, models.Version{Minor: 1}, updated.Version)

	rec = do(t, h, http.MethodGet, base+"/tree?format=text", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Root/\n└── xxxx/\n    └── New Document (v0.1)", rec.Body.String())

	rec = do(t, h, http.MethodGet, base+"/activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]*models.ActivityLog](t, rec), 4)
}

func TestErrorMapping(t *testing.T) {
	h := newServer(t)
	u := createUser(t, h)
	base := "/api/users/" + u.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{name: "unknown user", method: http.MethodGet, path: "/api/users/ghost", status: http.StatusNotFound},
		{name: "unknown parent", method: http.MethodPost, path: base + "/folders", body: map[string]string{"name": "x", "parent_id": "nope"}, status: http.StatusNotFound},
		{name: "slash in folder name", method: http.MethodPost, path: base + "/folders", body: map[string]string{"name": "a/b"}, status: http.StatusBadRequest},
		{name: "unknown document", method: http.MethodGet, path: base + "/documents/nope", status: http.StatusNotFound},
		{name: "bad access type", method: http.MethodPost, path: base + "/documents/nope/grants", body: map[string]string{"user_id": u.ID, "access": "admin"}, status: http.StatusBadRequest},
		{name: "invalid email", method: http.MethodPost, path: "/api/users", body: map[string]string{"user_name": "x", "email": "bad", "name": "x", "surname": "y"}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestMalformedBody(t *testing.T) {
	h := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportContent(t *testing.T) {
	h := newServer(t)
	u := createUser(t, h)
	base := "/api/users/" + u.ID

	rec := do(t, h, http.MethodPost, base+"/folders/"+u.RootFolder.ID+"/documents", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	doc := decode[*models.Document](t, rec)
	path := base + "/documents/" + doc.ID + "/content"

	upload := func(target, contentType, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec = upload(path, "text/html; charset=utf-8", "<h2>Plan</h2><script>bad()</script>")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[*models.Document](t, rec)
	assert.Equal(t, "## Plan", got.Content)
	assert.Equal(t, models.Version{Minor: 1}, got.Version)

	rec = upload(path+"?filename=notes.md", "application/octet-stream", "# Notes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# Notes", decode[*models.Document](t, rec).Content)

	rec = upload(path, "application/pdf", "%PDF")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = upload(path+"?filename=scan.pdf", "application/pdf", "%PDF")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
