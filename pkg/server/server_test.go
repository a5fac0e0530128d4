package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/inpxlib/internal/testgen"
	"github.com/shishobooks/inpxlib/pkg/config"
	"github.com/shishobooks/inpxlib/pkg/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e   *echo.Echo
	cfg *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := testgen.TempDir(t, "server-*")
	library := filepath.Join(dir, "library")
	dest := filepath.Join(dir, "dest")
	for _, d := range []string{library, dest} {
		require.NoError(t, os.MkdirAll(d, 0755))
	}
	testgen.GenerateZip(t, library, "fb2-000001-000010.zip",
		testgen.BookEntry(testgen.BookMonday, "fb2", "<FictionBook/>"),
	)

	cfg := &config.Config{
		InpxFilePath:     testgen.LibraryIndex(t, dir),
		LibraryDirectory: library,
		ImportLanguages:  []string{"ru", "en"},
		ExtractDirectory: dest,
		ExtractTemplate:  "filename",
	}

	db := testgen.NewDB(t)
	_, err := importer.NewService(db).Import(context.Background(), importer.ImportOptions{
		Path:      cfg.InpxFilePath,
		Languages: cfg.ImportLanguages,
	})
	require.NoError(t, err)

	e, err := newEcho(cfg, db)
	require.NoError(t, err)
	return &testServer{e, cfg}
}

func (ts *testServer) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	}
	return rec.Code, payload
}

func errorCode(payload map[string]any) any {
	e, _ := payload["error"].(map[string]any)
	return e["code"]
}

func TestServer_Browse(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)

	code, payload := ts.do(t, http.MethodGet, "/authors?search=%D0%B1%D0%BE%D1%80%D0%B8%D1%81", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, payload["total"])

	code, payload = ts.do(t, http.MethodGet, "/authors/alphas", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"D", "Е", "С", "Т"}, payload["alphas"])

	code, payload = ts.do(t, http.MethodGet, "/series?author_id=1", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, payload["total"])

	code, payload = ts.do(t, http.MethodGet, "/books?limit=2", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 7, payload["total"])
	assert.Len(t, payload["books"], 2)

	code, payload = ts.do(t, http.MethodGet, "/books/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Понедельник начинается в субботу", payload["title"])
	assert.Equal(t, []any{"sf_humor", "sf_social"}, payload["genres"])

	code, payload = ts.do(t, http.MethodGet, "/genres", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 6, payload["total"])
}

func TestServer_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"unknown book", "/books/999", http.StatusNotFound, "not_found"},
		{"malformed id", "/books/abc", http.StatusNotFound, "not_found"},
		{"unknown page", "/nowhere", http.StatusNotFound, "not_found"},
		{"limit too large", "/authors?limit=5000", http.StatusUnprocessableEntity, "validation_error"},
		{"unknown parameter", "/books?bogus=1", http.StatusUnprocessableEntity, "unknown_parameter"},
		{"bad favorites", "/books?favorites=everything", http.StatusUnprocessableEntity, "validation_error"},
		{"bad date", "/books?date_from=yesterday", http.StatusUnprocessableEntity, "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, payload := ts.do(t, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.status, code)
			assert.Equal(t, tt.code, errorCode(payload))
		})
	}
}

func TestServer_Favorites(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.do(t, http.MethodPost, "/favorites/authors", `{"name": " Толстой Лев "}`)
	require.Equal(t, http.StatusCreated, code)

	code, payload := ts.do(t, http.MethodPost, "/favorites/authors", `{"name": "Никто"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", errorCode(payload))

	code, payload = ts.do(t, http.MethodGet, "/books?favorites=authors", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, payload["total"])

	code, _ = ts.do(t, http.MethodDelete, "/favorites/authors/"+url.PathEscape("Толстой Лев"), "")
	assert.Equal(t, http.StatusNoContent, code)

	code, payload = ts.do(t, http.MethodGet, "/favorites/authors", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, payload["authors"])
}

func TestServer_Extract(t *testing.T) {
	ts := newTestServer(t)

	code, payload := ts.do(t, http.MethodPost, "/extract", `{"ids": [1, 99]}`)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, payload["requested"])
	assert.EqualValues(t, 1, payload["extracted"])
	assert.Contains(t, payload["report"], "book 99 is missing from the index")
	assert.FileExists(t, filepath.Join(ts.cfg.ExtractDirectory, "1 1.fb2"))

	code, payload = ts.do(t, http.MethodPost, "/extract", `{"ids": []}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "validation_error", errorCode(payload))

	code, payload = ts.do(t, http.MethodPost, "/extract", `{"ids": [1], "template": "nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "validation_error", errorCode(payload))
}

func TestServer_Import(t *testing.T) {
	ts := newTestServer(t)

	code, payload := ts.do(t, http.MethodGet, "/import", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, payload["stale"])
	require.NotNil(t, payload["last_import"])

	code, payload = ts.do(t, http.MethodPost, "/import", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 7, payload["books_total"])
	assert.EqualValues(t, 0, payload["books_new"])

	code, payload = ts.do(t, http.MethodGet, "/import/runs?limit=10", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, payload["total"])
}
