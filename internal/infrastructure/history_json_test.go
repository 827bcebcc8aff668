package infrastructure

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mediagrab/internal/domain"
)

func testRecord(n int) *domain.DownloadRecord {
	return domain.NewDownloadRecord(
		fmt.Sprintf("https://youtu.be/video%d", n),
		domain.KindYouTube,
		"Some Channel",
		fmt.Sprintf("Video %d", n),
		"/out/YouTube/Some Channel",
	)
}

func TestHistoryStore_AppendAndRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewJSONHistoryStore(path, 100, nil)

	record := testRecord(1)
	store.Append(record)

	loaded, err := store.List()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, *record, loaded[0])

	// The on-disk format is a human-readable JSON array with the exact
	// attribution field names.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"url"`)
	assert.Contains(t, string(data), `"download_date"`)
	assert.Contains(t, string(data), `"file_path"`)
	assert.Contains(t, string(data), "\n  ")

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
}

func TestHistoryStore_CapsAtMaxEvictingOldest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewJSONHistoryStore(path, 100, nil)

	for i := 0; i < 120; i++ {
		store.Append(testRecord(i))
	}

	loaded, err := store.List()
	require.NoError(t, err)
	require.Len(t, loaded, 100)
	assert.Equal(t, "https://youtu.be/video20", loaded[0].URL)
	assert.Equal(t, "https://youtu.be/video119", loaded[99].URL)
}

func TestHistoryStore_CorruptedFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewJSONHistoryStore(path, 100, nil)
	store.Append(testRecord(1))

	loaded, err := store.List()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestHistoryStore_MissingFileIsEmptyLog(t *testing.T) {
	store := NewJSONHistoryStore(filepath.Join(t.TempDir(), "nope.json"), 100, nil)

	loaded, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestHistoryStore_WriteFailureDoesNotPanic(t *testing.T) {
	// Point the store at a directory so the write fails.
	dir := t.TempDir()
	store := NewJSONHistoryStore(dir, 100, nil)

	store.Append(testRecord(1))
}

func TestHistoryStore_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewJSONHistoryStore(path, 100, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Append(testRecord(n))
		}(i)
	}
	wg.Wait()

	loaded, err := store.List()
	require.NoError(t, err)
	assert.Len(t, loaded, 20)
}
