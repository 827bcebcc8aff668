package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/mediagrab/internal/app"
	"github.com/yourusername/mediagrab/internal/domain"
	"github.com/yourusername/mediagrab/internal/infrastructure"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	config := domain.DefaultConfig()
	config.Download.OutputDir = filepath.Join(dir, "downloads")
	config.Download.LogsDir = filepath.Join(dir, "logs")
	config.History.FilePath = filepath.Join(dir, "history.json")
	config.Jobs.DatabasePath = filepath.Join(dir, "jobs.db")

	log := zap.NewNop()

	repo, err := infrastructure.NewSQLiteJobRepository(config.Jobs.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	history := infrastructure.NewJSONHistoryStore(config.History.FilePath, config.History.MaxEntries, log)
	extractor := infrastructure.NewYTDLPExtractor(&config.Extractor, config.Download.LogsDir, config.Download.UserAgent, log)
	images := infrastructure.NewHTTPImageFetcher(nil, config.Download.UserAgent, log)
	organizer := infrastructure.NewCreatorOrganizer(log)
	notifier := infrastructure.NewNotificationService(&config.Notification, log)

	orchestrator := app.NewOrchestrator(images, extractor, organizer, history,
		config.Download.HistorizeImages, log)
	manager := app.NewManager(repo, orchestrator, notifier, config, log)

	return SetupRouter(manager, history, config, log)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAddDownload_RejectsInvalidPayload(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/downloads",
		strings.NewReader(`{"quality":"1080p"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddDownload_RejectsUnsupportedURL(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/downloads",
		strings.NewReader(`{"url":"https://example.com/page"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "unsupported URL")
}

func TestAddDownload_AcceptsSupportedURL(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/downloads",
		strings.NewReader(`{"url":"https://www.youtube.com/watch?v=abc","quality":"720p"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var job map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.NotEmpty(t, job["id"])
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", job["url"])
}

func TestGetDownload_NotFound(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/downloads/no-such-id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelDownload_NotRunning(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/downloads/no-such-id/cancel", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListHistory_EmptyIsArray(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestListDownloads_RejectsBadLimit(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/downloads?limit=zero", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
