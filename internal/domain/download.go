package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the current status of a download job
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCancelled  JobStatus = "cancelled"
)

// DownloadRequest is the immutable description of a user-initiated job.
type DownloadRequest struct {
	URL       string  `json:"url"`
	Quality   Quality `json:"quality"`
	Subtitles bool    `json:"subtitles"`
}

// Job is the persisted lifecycle of one download, from submission to its
// terminal state. It journals what the orchestrator is doing; the durable
// attribution history is kept separately as DownloadRecord entries.
type Job struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	URL          string     `json:"url" gorm:"not null"`
	Kind         MediaKind  `json:"kind" gorm:"not null;index"`
	Quality      Quality    `json:"quality"`
	Subtitles    bool       `json:"subtitles"`
	Status       JobStatus  `json:"status" gorm:"not null;index"`
	Percent      int        `json:"percent"`
	Message      string     `json:"message,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Creator      string     `json:"creator,omitempty"`
	Title        string     `json:"title,omitempty"`
	OutputDir    string     `json:"output_dir,omitempty"`
	RetryCount   int        `json:"retry_count"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// NewJob creates a queued job for a request. The media kind is derived
// from the URL here; it is never stored on the request itself.
func NewJob(req DownloadRequest) *Job {
	return &Job{
		ID:        uuid.New().String(),
		URL:       req.URL,
		Kind:      Classify(req.URL),
		Quality:   req.Quality,
		Subtitles: req.Subtitles,
		Status:    StatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// Request reconstructs the immutable request this job was created from.
func (j *Job) Request() DownloadRequest {
	return DownloadRequest{URL: j.URL, Quality: j.Quality, Subtitles: j.Subtitles}
}

// MarkProcessing marks the job as started
func (j *Job) MarkProcessing() {
	j.Status = StatusProcessing
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkCompleted records the terminal success state with its user-facing message
func (j *Job) MarkCompleted(message string) {
	j.Status = StatusCompleted
	j.Message = message
	j.Percent = 100
	now := time.Now()
	j.FinishedAt = &now
	j.UpdatedAt = now
}

// MarkFailed records the terminal failure state
func (j *Job) MarkFailed(err error) {
	j.Status = StatusFailed
	j.ErrorMessage = err.Error()
	now := time.Now()
	j.FinishedAt = &now
	j.UpdatedAt = now
}

// MarkCancelled records a cooperative cancellation
func (j *Job) MarkCancelled() {
	j.Status = StatusCancelled
	now := time.Now()
	j.FinishedAt = &now
	j.UpdatedAt = now
}

// Requeue resets a failed or cancelled job for another attempt.
func (j *Job) Requeue() {
	j.Status = StatusQueued
	j.Percent = 0
	j.Message = ""
	j.ErrorMessage = ""
	j.StartedAt = nil
	j.FinishedAt = nil
	j.RetryCount++
	j.UpdatedAt = time.Now()
}

// IsTerminal checks if the job reached a terminal state
func (j *Job) IsTerminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed || j.Status == StatusCancelled
}

// Sentinels used when the extractor cannot determine attribution fields.
const (
	UnknownCreator = "Unknown"
	UnknownTitle   = "Unknown Title"
)

// DownloadRecord is the durable attribution entry created on a successful
// job: what was downloaded, by whom, and where it landed on disk. The JSON
// field names are the on-disk history format and must not change.
type DownloadRecord struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Creator      string `json:"creator"`
	Platform     string `json:"platform"`
	DownloadDate string `json:"download_date"`
	FilePath     string `json:"file_path"`
}

// NewDownloadRecord builds a record with the download timestamp captured
// at construction time. Missing creator and title fall back to sentinels.
func NewDownloadRecord(url string, kind MediaKind, creator, title, filePath string) *DownloadRecord {
	if creator == "" {
		creator = UnknownCreator
	}
	if title == "" {
		title = UnknownTitle
	}
	return &DownloadRecord{
		URL:          url,
		Title:        title,
		Creator:      creator,
		Platform:     string(kind),
		DownloadDate: time.Now().Format(time.RFC3339),
		FilePath:     filePath,
	}
}
