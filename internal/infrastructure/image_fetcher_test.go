package infrastructure

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mediagrab/internal/domain"
)

const testUserAgent = "Mozilla/5.0 (test)"

func TestImageFetcher_DownloadsByURLBasename(t *testing.T) {
	body := bytes.Repeat([]byte{0xAB}, 1000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer server.Close()

	destDir := t.TempDir()
	fetcher := NewHTTPImageFetcher(server.Client(), testUserAgent, nil)

	var events []domain.ProgressEvent
	path, err := fetcher.Fetch(context.Background(), server.URL+"/cat.png", destDir, func(e domain.ProgressEvent) {
		events = append(events, e)
	})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "cat.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, data)

	// Progress must be non-decreasing and terminate at exactly 100.
	require.NotEmpty(t, events)
	last := 0
	for _, e := range events {
		assert.GreaterOrEqual(t, e.Percent, last)
		last = e.Percent
	}
	assert.Equal(t, 100, events[len(events)-1].Percent)
}

func TestImageFetcher_UnknownSizeReportsZeroThenHundred(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		flusher := w.(http.Flusher)
		// Chunked response: no Content-Length.
		w.Write(bytes.Repeat([]byte{0x01}, 500))
		flusher.Flush()
		w.Write(bytes.Repeat([]byte{0x02}, 500))
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(server.Client(), testUserAgent, nil)

	var events []domain.ProgressEvent
	_, err := fetcher.Fetch(context.Background(), server.URL+"/photo.jpg", t.TempDir(), func(e domain.ProgressEvent) {
		events = append(events, e)
	})

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, 0, events[0].Percent)
	assert.Equal(t, 100, events[len(events)-1].Percent)
}

func TestImageFetcher_ContentDispositionWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="served name.png"`)
		w.Write([]byte{0x89, 0x50})
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(server.Client(), testUserAgent, nil)
	path, err := fetcher.Fetch(context.Background(), server.URL+"/ignored.bin", t.TempDir(), nil)

	require.NoError(t, err)
	assert.Equal(t, "served name.png", filepath.Base(path))
}

func TestImageFetcher_SynthesizesNameFromContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		w.Write([]byte("RIFF"))
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(server.Client(), testUserAgent, nil)
	path, err := fetcher.Fetch(context.Background(), server.URL+"/media", t.TempDir(), nil)

	require.NoError(t, err)
	name := filepath.Base(path)
	assert.True(t, filepath.Ext(name) == ".webp", name)
	assert.Contains(t, name, "image_")
}

func TestImageFetcher_SanitizesServedFilename(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="a:b?c.png"`)
		w.Write([]byte{0x01})
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(server.Client(), testUserAgent, nil)
	path, err := fetcher.Fetch(context.Background(), server.URL+"/x.png", t.TempDir(), nil)

	require.NoError(t, err)
	assert.Equal(t, "a_b_c.png", filepath.Base(path))
}

func TestImageFetcher_HTTPErrorIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	destDir := t.TempDir()
	fetcher := NewHTTPImageFetcher(server.Client(), testUserAgent, nil)
	path, err := fetcher.Fetch(context.Background(), server.URL+"/missing.png", destDir, nil)

	assert.Empty(t, path)
	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)

	// No partial file may be left behind.
	entries, readErr := os.ReadDir(destDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestImageFetcher_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte{0x01}, 100))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewHTTPImageFetcher(server.Client(), testUserAgent, nil)
	_, err := fetcher.Fetch(ctx, server.URL+"/cat.png", t.TempDir(), nil)

	assert.Error(t, err)
}
