package domain

// ProgressEvent is a transient snapshot of a running job. Percent is
// clamped to 0-100 and non-decreasing for well-behaved sources; when the
// total size is unknown the fetcher reports 0 until completion, then 100.
// Speed and ETA are optional human-readable strings and never persisted.
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Speed   string `json:"speed,omitempty"`
	ETA     string `json:"eta,omitempty"`
}

// ProgressFunc receives progress events for a single job, in order.
// A nil ProgressFunc is always allowed.
type ProgressFunc func(ProgressEvent)

// Result is the single terminal event per job delivered to whoever
// subscribed when the job was started.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Record  *DownloadRecord `json:"record,omitempty"`
}
