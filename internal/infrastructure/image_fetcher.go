package infrastructure

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/mediagrab/internal/domain"
)

// imageChunkSize is the fixed write granularity; progress is reported and
// cancellation is checked once per chunk.
const imageChunkSize = 8 * 1024

// HTTPImageFetcher streams direct image URLs to disk.
type HTTPImageFetcher struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewHTTPImageFetcher creates a new image fetcher
func NewHTTPImageFetcher(client *http.Client, userAgent string, logger *zap.Logger) *HTTPImageFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPImageFetcher{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Fetch downloads the image at rawURL into destDir and returns the written
// file path. Progress percent is derived from Content-Length when present;
// otherwise a single 0 is reported during transfer and 100 on completion.
// On any failure the partial file is removed and no path is returned.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, rawURL, destDir string, onProgress domain.ProgressFunc) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &domain.NetworkError{URL: rawURL, Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &domain.NetworkError{URL: rawURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.NetworkError{
			URL:   rawURL,
			Cause: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	filename := resolveFilename(rawURL, resp.Header)
	destPath := filepath.Join(destDir, SanitizeName(filename))

	file, err := os.Create(destPath)
	if err != nil {
		return "", &domain.FilesystemError{
			Op:    "create",
			Path:  destPath,
			Cause: err,
			Hint:  "check that the download folder exists and is writable",
		}
	}

	written, err := f.copyBody(ctx, file, resp.Body, resp.ContentLength, onProgress)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &domain.NetworkError{URL: rawURL, Cause: err}
	}

	if onProgress != nil {
		onProgress(domain.ProgressEvent{Percent: 100})
	}
	if f.logger != nil {
		f.logger.Info("Image downloaded",
			zap.String("url", rawURL),
			zap.String("path", destPath),
			zap.Int64("bytes", written))
	}
	return destPath, nil
}

// copyBody writes the response body in fixed-size chunks, checking the
// context and emitting progress after each one.
func (f *HTTPImageFetcher) copyBody(ctx context.Context, dst io.Writer, src io.Reader, total int64, onProgress domain.ProgressFunc) (int64, error) {
	buf := make([]byte, imageChunkSize)
	var written int64

	if onProgress != nil && total <= 0 {
		// Total size unknown: progress is not estimable until completion.
		onProgress(domain.ProgressEvent{Percent: 0})
	}

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			if onProgress != nil && total > 0 {
				percent := int(written * 100 / total)
				if percent > 100 {
					percent = 100
				}
				onProgress(domain.ProgressEvent{Percent: percent})
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// resolveFilename picks a filename in priority order: Content-Disposition
// header, last URL path segment with an extension, then a name synthesized
// from a hash of the URL with an extension inferred from the content type.
func resolveFilename(rawURL string, header http.Header) string {
	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}

	if parsed, err := url.Parse(rawURL); err == nil {
		base := path.Base(parsed.Path)
		if base != "." && base != "/" && strings.Contains(base, ".") {
			return base
		}
	}

	return synthesizeFilename(rawURL, header.Get("Content-Type"))
}

func synthesizeFilename(rawURL, contentType string) string {
	ext := ".jpg"
	switch {
	case strings.Contains(contentType, "png"):
		ext = ".png"
	case strings.Contains(contentType, "gif"):
		ext = ".gif"
	case strings.Contains(contentType, "webp"):
		ext = ".webp"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		ext = ".jpg"
	}

	h := fnv.New32a()
	h.Write([]byte(rawURL))
	return fmt.Sprintf("image_%04d%s", h.Sum32()%10000, ext)
}
