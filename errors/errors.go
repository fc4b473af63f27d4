package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a stable machine-readable failure category, suitable for mapping
// to localized messages at the boundary.
type Kind string

const (
	KindInvalidURL          Kind = "invalid_url"
	KindMetadataUnavailable Kind = "metadata_unavailable"
	KindNoTranscript        Kind = "no_transcript"
	KindDownloadFailed      Kind = "download_failed"
	KindTranscriptionFailed Kind = "transcription_failed"
	KindRateLimitedTimeout  Kind = "rate_limited_timeout"
	KindInternal            Kind = "internal_error"
)

type AppError struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"error_reason"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(code int, kind Kind, op string, err error, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidURL(op string, err error, message string) *AppError {
	return newError(http.StatusBadRequest, KindInvalidURL, op, err, message)
}

func MetadataUnavailable(op string, err error, message string) *AppError {
	return newError(http.StatusBadGateway, KindMetadataUnavailable, op, err, message)
}

func NoTranscript(op string, err error, message string) *AppError {
	return newError(http.StatusUnprocessableEntity, KindNoTranscript, op, err, message)
}

func DownloadFailed(op string, err error, message string) *AppError {
	return newError(http.StatusBadGateway, KindDownloadFailed, op, err, message)
}

func TranscriptionFailed(op string, err error, message string) *AppError {
	return newError(http.StatusBadGateway, KindTranscriptionFailed, op, err, message)
}

func RateLimitedTimeout(op string, err error, message string) *AppError {
	return newError(http.StatusTooManyRequests, KindRateLimitedTimeout, op, err, message)
}

func Internal(op string, err error, message string) *AppError {
	return newError(http.StatusInternalServerError, KindInternal, op, err, message)
}

func NotFound(op string, err error, message string) *AppError {
	return newError(http.StatusNotFound, KindInternal, op, err, message)
}

// KindOf extracts the failure kind from err, or KindInternal for errors that
// did not originate in this package.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// CodeOf returns the HTTP status for err.
func CodeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
