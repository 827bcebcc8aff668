package domain

// JobRepository defines the interface for job journal persistence
type JobRepository interface {
	// Create inserts a new job
	Create(job *Job) error

	// Update updates an existing job
	Update(job *Job) error

	// FindByID finds a job by ID
	FindByID(id string) (*Job, error)

	// FindRecent returns the most recent jobs, newest first
	FindRecent(limit int) ([]*Job, error)

	// FindByStatus finds jobs by status
	FindByStatus(status JobStatus) ([]*Job, error)

	// GetStats returns job counts per status
	GetStats() (*JobStats, error)
}

// JobStats represents job journal statistics
type JobStats struct {
	Total      int64 `json:"total"`
	Queued     int64 `json:"queued"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	Cancelled  int64 `json:"cancelled"`
}
