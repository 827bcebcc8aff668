package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewJob(t *testing.T) {
	req := DownloadRequest{
		URL:     "https://www.youtube.com/watch?v=abc",
		Quality: Quality1080p,
	}

	job := NewJob(req)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, req.URL, job.URL)
	assert.Equal(t, KindYouTube, job.Kind)
	assert.Equal(t, Quality1080p, job.Quality)
	assert.Equal(t, StatusQueued, job.Status)
	assert.False(t, job.IsTerminal())
}

func TestJob_MarkProcessing(t *testing.T) {
	job := NewJob(DownloadRequest{URL: "https://x.com/user/status/1", Quality: QualityBest})

	job.MarkProcessing()

	assert.Equal(t, StatusProcessing, job.Status)
	assert.NotNil(t, job.StartedAt)
}

func TestJob_MarkCompleted(t *testing.T) {
	job := NewJob(DownloadRequest{URL: "https://x.com/user/status/1", Quality: QualityBest})

	job.MarkCompleted("Twitter download completed by someone")

	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Percent)
	assert.NotNil(t, job.FinishedAt)
	assert.True(t, job.IsTerminal())
}

func TestJob_MarkFailed(t *testing.T) {
	job := NewJob(DownloadRequest{URL: "https://x.com/user/status/1", Quality: QualityBest})

	job.MarkFailed(errors.New("download failed"))

	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, "download failed", job.ErrorMessage)
	assert.True(t, job.IsTerminal())
}

func TestJob_MarkCancelled(t *testing.T) {
	job := NewJob(DownloadRequest{URL: "https://x.com/user/status/1", Quality: QualityBest})

	job.MarkCancelled()

	assert.Equal(t, StatusCancelled, job.Status)
	assert.True(t, job.IsTerminal())
}

func TestJob_Request(t *testing.T) {
	req := DownloadRequest{URL: "https://youtu.be/abc", Quality: Quality720p, Subtitles: true}
	assert.Equal(t, req, NewJob(req).Request())
}

func TestNewDownloadRecord(t *testing.T) {
	record := NewDownloadRecord("https://youtu.be/abc", KindYouTube, "Some Channel", "A Title", "/out/YouTube/Some Channel")

	assert.Equal(t, "YouTube", record.Platform)
	assert.Equal(t, "Some Channel", record.Creator)
	assert.Equal(t, "A Title", record.Title)
	assert.Equal(t, "/out/YouTube/Some Channel", record.FilePath)

	parsed, err := time.Parse(time.RFC3339, record.DownloadDate)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
}

func TestNewDownloadRecord_Sentinels(t *testing.T) {
	record := NewDownloadRecord("https://youtu.be/abc", KindYouTube, "", "", "/out")

	assert.Equal(t, UnknownCreator, record.Creator)
	assert.Equal(t, UnknownTitle, record.Title)
}
