package domain

import "context"

// MediaInfo is the metadata returned by probing a URL without downloading.
type MediaInfo struct {
	Title    string
	Uploader string
}

// FetchSpec tells the extraction engine what to download and where.
type FetchSpec struct {
	URL       string
	Kind      MediaKind
	Quality   Quality
	Subtitles bool
	OutputDir string
}

// Extractor is the boundary to the external media-extraction engine.
// Probe never transfers media bytes; Fetch streams into the output
// directory while reporting normalized progress events.
type Extractor interface {
	Probe(ctx context.Context, url string) (*MediaInfo, error)
	Fetch(ctx context.Context, spec FetchSpec, onProgress ProgressFunc) error
}

// ImageFetcher streams a direct image URL to disk and returns the path of
// the written file.
type ImageFetcher interface {
	Fetch(ctx context.Context, url, destDir string, onProgress ProgressFunc) (string, error)
}

// Organizer derives the deterministic creator/platform output directory,
// creating it on demand.
type Organizer interface {
	Organize(baseDir, creator, platform string) string
}

// HistoryStore persists the capped attribution log. Append is best-effort:
// persistence failures are logged by the implementation and never fail the
// caller's job.
type HistoryStore interface {
	Append(record *DownloadRecord)
	List() ([]DownloadRecord, error)
}
