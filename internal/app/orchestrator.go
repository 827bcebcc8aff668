package app

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/mediagrab/internal/domain"
)

// Orchestrator runs one download job end to end: validation, strategy
// dispatch, output organization and history persistence. It holds no
// per-job state and is safe for concurrent use.
type Orchestrator struct {
	images          domain.ImageFetcher
	extractor       domain.Extractor
	organizer       domain.Organizer
	history         domain.HistoryStore
	historizeImages bool
	logger          *zap.Logger
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	images domain.ImageFetcher,
	extractor domain.Extractor,
	organizer domain.Organizer,
	history domain.HistoryStore,
	historizeImages bool,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		images:          images,
		extractor:       extractor,
		organizer:       organizer,
		history:         history,
		historizeImages: historizeImages,
		logger:          logger,
	}
}

// ValidateRequest rejects malformed or unsupported input before any job
// starts. No resources are touched here.
func ValidateRequest(req domain.DownloadRequest) error {
	if strings.TrimSpace(req.URL) == "" {
		return domain.NewValidationError("please enter a URL")
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		// A host-relative path with an image format hint is usually a
		// partially copied CDN link.
		if strings.HasPrefix(req.URL, "/") && containsImageFormatHint(req.URL) {
			return domain.NewValidationError(
				"incomplete image CDN URL; copy the full URL starting with https://pbs.twimg.com")
		}
		return domain.NewValidationError("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return domain.NewValidationError("unsupported URL scheme %q", parsed.Scheme)
	}

	if !domain.IsSupportedURL(req.URL) {
		return domain.NewValidationError(
			"unsupported URL; supported: YouTube videos, TikTok videos, Twitter/X posts, or direct image URLs")
	}

	if req.Quality != "" && !domain.ValidateQuality(req.Quality) {
		return domain.NewValidationError("unknown quality preset %q", req.Quality)
	}

	return nil
}

func containsImageFormatHint(rawURL string) bool {
	lowered := strings.ToLower(rawURL)
	return strings.Contains(lowered, "format=jpg") ||
		strings.Contains(lowered, "format=png") ||
		strings.Contains(lowered, "format=webp")
}

// Run executes a job against the base output directory captured at job
// start. It returns the single terminal result; progress events are
// delivered through onProgress while the job runs.
func (o *Orchestrator) Run(ctx context.Context, req domain.DownloadRequest, outputDir string, onProgress domain.ProgressFunc) domain.Result {
	if err := ValidateRequest(req); err != nil {
		return o.failure(req, err)
	}

	if err := precheckWritable(outputDir); err != nil {
		return o.failure(req, err)
	}

	kind := domain.Classify(req.URL)
	if kind == domain.KindImage {
		return o.runImage(ctx, req, outputDir, onProgress)
	}
	return o.runExtractor(ctx, req, kind, outputDir, onProgress)
}

// runImage streams a direct image to the output directory. Image downloads
// only enter history when historize_images is enabled, preserving the
// observed behavior of attribution tracking video content only.
func (o *Orchestrator) runImage(ctx context.Context, req domain.DownloadRequest, outputDir string, onProgress domain.ProgressFunc) domain.Result {
	path, err := o.images.Fetch(ctx, req.URL, outputDir, onProgress)
	if err != nil {
		return o.failure(req, err)
	}

	var record *domain.DownloadRecord
	if o.historizeImages {
		record = domain.NewDownloadRecord(req.URL, domain.KindImage, "", "", path)
		o.history.Append(record)
	}

	o.logger.Info("Image job completed",
		zap.String("url", req.URL),
		zap.String("path", path))
	return domain.Result{
		Success: true,
		Message: fmt.Sprintf("Image downloaded: %s", filepath.Base(path)),
		Record:  record,
	}
}

// runExtractor is the two-phase delegated fetch: probe metadata first so
// the file lands directly in its creator/platform home, then download.
func (o *Orchestrator) runExtractor(ctx context.Context, req domain.DownloadRequest, kind domain.MediaKind, outputDir string, onProgress domain.ProgressFunc) domain.Result {
	info, err := o.extractor.Probe(ctx, req.URL)
	if err != nil {
		return o.failure(req, err)
	}

	organizedDir := o.organizer.Organize(outputDir, info.Uploader, string(kind))

	spec := domain.FetchSpec{
		URL:       req.URL,
		Kind:      kind,
		Quality:   req.Quality,
		Subtitles: req.Subtitles,
		OutputDir: organizedDir,
	}
	if err := o.extractor.Fetch(ctx, spec, onProgress); err != nil {
		return o.failure(req, err)
	}

	record := domain.NewDownloadRecord(req.URL, kind, info.Uploader, info.Title, organizedDir)
	o.history.Append(record)

	o.logger.Info("Download job completed",
		zap.String("url", req.URL),
		zap.String("platform", string(kind)),
		zap.String("creator", record.Creator),
		zap.String("dir", organizedDir))

	message := fmt.Sprintf("%s download completed", kind)
	if info.Uploader != "" {
		message += " by " + info.Uploader
	}
	return domain.Result{Success: true, Message: message, Record: record}
}

// failure logs the full error for postmortem and returns a terminal result
// carrying only the concise, human-readable message.
func (o *Orchestrator) failure(req domain.DownloadRequest, err error) domain.Result {
	o.logger.Error("Download job failed",
		zap.String("url", req.URL),
		zap.Error(err))
	return domain.Result{Success: false, Message: err.Error()}
}

// precheckWritable verifies the output directory accepts writes by
// creating and removing a probe file, before any network activity.
func precheckWritable(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return &domain.FilesystemError{
			Op:    "create",
			Path:  outputDir,
			Cause: err,
			Hint:  "choose a writable download folder",
		}
	}

	probe := filepath.Join(outputDir, ".write_probe.tmp")
	file, err := os.Create(probe)
	if err != nil {
		return &domain.FilesystemError{
			Op:    "write",
			Path:  outputDir,
			Cause: err,
			Hint:  "choose a writable download folder",
		}
	}
	file.Close()
	os.Remove(probe)
	return nil
}
