package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/mediagrab/internal/domain"
)

// progressTemplate makes yt-dlp emit one machine-parseable line per
// progress tick instead of its human-oriented status bar. Fields are
// downloaded bytes, total bytes, estimated total bytes, speed (bytes/s)
// and ETA (seconds); yt-dlp prints "NA" for anything it cannot measure.
const progressTemplate = "download:PROGRESS %(progress.downloaded_bytes)s " +
	"%(progress.total_bytes)s %(progress.total_bytes_estimate)s " +
	"%(progress.speed)s %(progress.eta)s"

// YTDLPExtractor drives the external yt-dlp binary: metadata probing
// without download, and download with normalized progress reporting.
type YTDLPExtractor struct {
	binary    string
	logsDir   string
	userAgent string
	fragments int
	titleMax  int
	logger    *zap.Logger
}

// NewYTDLPExtractor creates a new yt-dlp backed extractor
func NewYTDLPExtractor(config *domain.ExtractorConfig, logsDir, userAgent string, logger *zap.Logger) *YTDLPExtractor {
	return &YTDLPExtractor{
		binary:    config.Binary,
		logsDir:   logsDir,
		userAgent: userAgent,
		fragments: config.FragmentConcurrency,
		titleMax:  config.TitleMaxChars,
		logger:    logger,
	}
}

// probeInfo is the subset of yt-dlp's info JSON the orchestrator needs.
type probeInfo struct {
	Title    string `json:"title"`
	Uploader string `json:"uploader"`
}

// Probe queries metadata for a URL without transferring any media bytes.
func (e *YTDLPExtractor) Probe(ctx context.Context, url string) (*domain.MediaInfo, error) {
	args := []string{
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--add-header", "User-Agent:" + e.userAgent,
		url,
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.ClassifyEngineFailure(stderrOrErr(stderr.String(), err))
	}

	var info probeInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, &domain.ExtractionError{
			Reason:  domain.ReasonGeneric,
			Message: fmt.Sprintf("unreadable metadata: %v", err),
		}
	}

	return &domain.MediaInfo{Title: info.Title, Uploader: info.Uploader}, nil
}

// Fetch downloads the media described by spec into spec.OutputDir,
// translating the engine's event stream into ProgressEvents. An engine
// "ERROR" observed in the stream fails the fetch even when the process
// exits zero.
func (e *YTDLPExtractor) Fetch(ctx context.Context, spec domain.FetchSpec, onProgress domain.ProgressFunc) error {
	args := e.fetchArgs(spec)

	downloadLog := e.openDownloadLog()
	if downloadLog != nil {
		defer downloadLog.Close()
		e.writeLogHeader(downloadLog, spec.URL, append([]string{e.binary}, args...))
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach to engine output: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return &domain.ExtractionError{
			Reason:  domain.ReasonGeneric,
			Message: fmt.Sprintf("failed to start %s: %v", e.binary, err),
		}
	}

	monitor := newProgressMonitor(onProgress)
	var streamedError string

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		if downloadLog != nil {
			fmt.Fprintln(downloadLog, line)
		}
		if strings.HasPrefix(line, "ERROR:") {
			streamedError = line
			continue
		}
		if event, ok := parseProgressLine(line); ok {
			monitor.Observe(event)
		}
		// Unrecognized lines are non-fatal engine chatter.
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		e.writeLogFooter(downloadLog, false, "cancelled")
		return ctx.Err()
	}

	if waitErr != nil || streamedError != "" {
		output := stderr.String()
		if streamedError != "" {
			output = streamedError + "\n" + output
		}
		failure := domain.ClassifyEngineFailure(stderrOrErr(output, waitErr))
		e.writeLogFooter(downloadLog, false, failure.Error())
		return failure
	}

	monitor.Finish()
	e.writeLogFooter(downloadLog, true, "completed")
	return nil
}

// fetchArgs builds the engine invocation for a fetch. Filenames are
// restricted to a portable character set and titles are truncated so the
// output path survives every filesystem the target directory may live on.
func (e *YTDLPExtractor) fetchArgs(spec domain.FetchSpec) []string {
	args := []string{
		"-f", domain.FormatSelector(spec.Quality, spec.Kind),
		"--newline",
		"--progress-template", progressTemplate,
		"--no-playlist",
		"--restrict-filenames",
		"--windows-filenames",
		"--concurrent-fragments", strconv.Itoa(e.fragments),
		"--add-header", "User-Agent:" + e.userAgent,
	}

	if spec.Quality != domain.QualityAudio {
		args = append(args, "--merge-output-format", "mp4")
	}

	if spec.Subtitles && !spec.Kind.FormatLimited() {
		args = append(args,
			"--write-subs",
			"--write-auto-subs",
			"--sub-langs", "en,en-US",
			"--sub-format", "srt",
		)
	}

	template := fmt.Sprintf("%%(uploader)s - %%(title).%ds.%%(ext)s", e.titleMax)
	args = append(args, "-o", filepath.Join(spec.OutputDir, template), spec.URL)
	return args
}

// parseProgressLine normalizes one engine progress line into a
// ProgressEvent. It returns false for any other line shape.
func parseProgressLine(line string) (domain.ProgressEvent, bool) {
	fields := strings.Fields(line)
	if len(fields) != 6 || fields[0] != "PROGRESS" {
		return domain.ProgressEvent{}, false
	}

	downloaded, ok := parseEngineNumber(fields[1])
	if !ok {
		return domain.ProgressEvent{}, false
	}
	total, totalKnown := parseEngineNumber(fields[2])
	if !totalKnown {
		total, totalKnown = parseEngineNumber(fields[3])
	}

	event := domain.ProgressEvent{}
	if totalKnown && total > 0 {
		percent := int(downloaded * 100 / total)
		if percent > 100 {
			percent = 100
		}
		event.Percent = percent
	}

	if speed, ok := parseEngineNumber(fields[4]); ok && speed > 0 {
		event.Speed = fmt.Sprintf("%.2f MB/s", speed/1024/1024)
	}
	if eta, ok := parseEngineNumber(fields[5]); ok && eta >= 0 {
		event.ETA = fmt.Sprintf("%dm %ds", int64(eta)/60, int64(eta)%60)
	}

	return event, true
}

// parseEngineNumber parses a numeric template field, where "NA" and empty
// mean unknown. yt-dlp prints some counters as floats.
func parseEngineNumber(field string) (float64, bool) {
	if field == "" || field == "NA" || field == "None" {
		return 0, false
	}
	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// progressMonitor enforces the delivery contract on an event stream the
// engine cannot guarantee: percent never decreases within one job (merged
// video+audio downloads restart the engine's counter per stream), and a
// terminal 100 is always delivered exactly once.
type progressMonitor struct {
	onProgress domain.ProgressFunc
	maxPercent int
	finished   bool
}

func newProgressMonitor(onProgress domain.ProgressFunc) *progressMonitor {
	return &progressMonitor{onProgress: onProgress}
}

// Observe forwards an event, clamping percent to the high-water mark.
func (m *progressMonitor) Observe(event domain.ProgressEvent) {
	if m.onProgress == nil || m.finished {
		return
	}
	if event.Percent < m.maxPercent {
		event.Percent = m.maxPercent
	} else {
		m.maxPercent = event.Percent
	}
	m.onProgress(event)
}

// Finish emits the terminal 100.
func (m *progressMonitor) Finish() {
	if m.onProgress == nil || m.finished {
		return
	}
	m.finished = true
	m.maxPercent = 100
	m.onProgress(domain.ProgressEvent{Percent: 100})
}

// stderrOrErr prefers the engine's own message over the exec error.
func stderrOrErr(stderr string, err error) string {
	if strings.TrimSpace(stderr) != "" {
		return stderr
	}
	if err != nil {
		return err.Error()
	}
	return "unknown engine failure"
}

// openDownloadLog opens today's download log for appending. Diagnostic
// logging is best-effort and never blocks a fetch.
func (e *YTDLPExtractor) openDownloadLog() *os.File {
	if e.logsDir == "" {
		return nil
	}
	if err := os.MkdirAll(e.logsDir, 0755); err != nil {
		if e.logger != nil {
			e.logger.Warn("Failed to create logs directory", zap.Error(err))
		}
		return nil
	}
	name := "download-" + time.Now().Format("20060102") + ".log"
	file, err := os.OpenFile(filepath.Join(e.logsDir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("Failed to open download log", zap.Error(err))
		}
		return nil
	}
	return file
}

func (e *YTDLPExtractor) writeLogHeader(file *os.File, url string, cmdLine []string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(file, "\n=== [%s] Download: %s ===\n", timestamp, url)
	fmt.Fprintf(file, "$ %s\n", shellQuoteCommand(cmdLine))
}

func (e *YTDLPExtractor) writeLogFooter(file *os.File, success bool, message string) {
	if file == nil {
		return
	}
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(file, "[%s] %s: %s\n=== END ===\n\n", timestamp, status, message)
}

// shellQuoteCommand renders a command line for the diagnostic log so an
// operator can copy and re-run it. exec.Command itself needs no quoting.
func shellQuoteCommand(cmdLine []string) string {
	quoted := make([]string, len(cmdLine))
	for i, arg := range cmdLine {
		if arg == "" || strings.ContainsAny(arg, " \t'\"$`\\!*?[](){}|;<>&~#%") {
			quoted[i] = "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
		} else {
			quoted[i] = arg
		}
	}
	return strings.Join(quoted, " ")
}
