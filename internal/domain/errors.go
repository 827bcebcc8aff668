package domain

import (
	"fmt"
	"strings"
)

// ValidationError rejects malformed or unsupported input before any job
// starts. It is never retried and carries a message safe to show the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with a caller-facing message
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NetworkError wraps a transport or HTTP-level failure.
type NetworkError struct {
	URL   string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure for %s: %v", e.URL, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// FilesystemError wraps a permission or path failure with a remediation
// hint for the operator.
type FilesystemError struct {
	Op    string
	Path  string
	Cause error
	Hint  string
}

func (e *FilesystemError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *FilesystemError) Unwrap() error {
	return e.Cause
}

// ExtractionReason subdivides delegated engine failures into the classes
// that need distinct user-facing explanations.
type ExtractionReason string

const (
	// ReasonSignature is an engine-versioning failure: the platform changed
	// its cipher and the engine needs an update.
	ReasonSignature ExtractionReason = "signature"
	// ReasonNotAVideo means the post holds only non-video media.
	ReasonNotAVideo ExtractionReason = "not_a_video"
	// ReasonPrivate means the account or post is private/protected.
	ReasonPrivate ExtractionReason = "private"
	// ReasonNotFound means the post was deleted or never existed.
	ReasonNotFound ExtractionReason = "not_found"
	// ReasonGeneric is every other engine failure.
	ReasonGeneric ExtractionReason = "generic"
)

// Terminal reports whether the failure is a user-facing explanation rather
// than a defect, so it must not be retried.
func (r ExtractionReason) Terminal() bool {
	return r == ReasonNotAVideo || r == ReasonPrivate || r == ReasonNotFound
}

// ExtractionError is a failure reported by the external extraction engine.
type ExtractionError struct {
	Reason  ExtractionReason
	Message string
}

func (e *ExtractionError) Error() string {
	switch e.Reason {
	case ReasonSignature:
		return "the platform has updated its player security; update the yt-dlp binary and try again"
	case ReasonNotAVideo:
		return "this post contains images, not videos; image-only posts are not downloadable this way"
	case ReasonPrivate:
		return "cannot download from a private or protected account"
	case ReasonNotFound:
		return "post not found or it has been deleted"
	default:
		return fmt.Sprintf("extraction failed: %s", e.Message)
	}
}

// ClassifyEngineFailure maps the engine's stringly-typed failure output to
// the error taxonomy. Path failures become filesystem errors with a
// remediation hint; everything else becomes an ExtractionError whose reason
// is matched on known engine message fragments.
func ClassifyEngineFailure(output string) error {
	lowered := strings.ToLower(output)

	switch {
	case strings.Contains(lowered, "no such file or directory"):
		return &FilesystemError{
			Op:    "write",
			Path:  "output directory",
			Cause: fmt.Errorf("%s", firstLine(output)),
			Hint:  "try a different download folder or check permissions",
		}
	case strings.Contains(lowered, "nsig extraction failed"),
		strings.Contains(lowered, "signature extraction failed"):
		return &ExtractionError{Reason: ReasonSignature, Message: firstLine(output)}
	case strings.Contains(lowered, "not a video"):
		return &ExtractionError{Reason: ReasonNotAVideo, Message: firstLine(output)}
	case strings.Contains(lowered, "private"), strings.Contains(lowered, "protected"):
		return &ExtractionError{Reason: ReasonPrivate, Message: firstLine(output)}
	case strings.Contains(lowered, "not found"), strings.Contains(lowered, "does not exist"):
		return &ExtractionError{Reason: ReasonNotFound, Message: firstLine(output)}
	default:
		return &ExtractionError{Reason: ReasonGeneric, Message: firstLine(output)}
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}
