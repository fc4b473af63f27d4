package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := Internal("test.Op", nil, "test message")

	if err.Code != http.StatusInternalServerError {
		t.Errorf("expected code %d, got %d", http.StatusInternalServerError, err.Code)
	}
	if err.Error() != "test message" {
		t.Errorf("expected 'test message', got %q", err.Error())
	}

	wrapped := Internal("test.Op", fmt.Errorf("cause"), "outer")
	if wrapped.Error() != "outer: cause" {
		t.Errorf("expected 'outer: cause', got %q", wrapped.Error())
	}
}

func TestConstructorKindsAndCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		kind Kind
		code int
	}{
		{"invalid url", InvalidURL("op", nil, "m"), KindInvalidURL, http.StatusBadRequest},
		{"metadata unavailable", MetadataUnavailable("op", nil, "m"), KindMetadataUnavailable, http.StatusBadGateway},
		{"no transcript", NoTranscript("op", nil, "m"), KindNoTranscript, http.StatusUnprocessableEntity},
		{"download failed", DownloadFailed("op", nil, "m"), KindDownloadFailed, http.StatusBadGateway},
		{"transcription failed", TranscriptionFailed("op", nil, "m"), KindTranscriptionFailed, http.StatusBadGateway},
		{"rate limited timeout", RateLimitedTimeout("op", nil, "m"), KindRateLimitedTimeout, http.StatusTooManyRequests},
		{"internal", Internal("op", nil, "m"), KindInternal, http.StatusInternalServerError},
		{"not found", NotFound("op", nil, "m"), KindInternal, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, tt.err.Kind)
			}
			if tt.err.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, tt.err.Code)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"app error", NoTranscript("op", nil, "m"), KindNoTranscript},
		{"wrapped app error", fmt.Errorf("outer: %w", DownloadFailed("op", nil, "m")), KindDownloadFailed},
		{"standard error", fmt.Errorf("plain"), KindInternal},
		{"nil cause preserved", RateLimitedTimeout("op", nil, "m"), KindRateLimitedTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsKindAndCodeOf(t *testing.T) {
	err := InvalidURL("op", nil, "bad")
	if !IsKind(err, KindInvalidURL) {
		t.Error("expected IsKind to match")
	}
	if IsKind(err, KindNoTranscript) {
		t.Error("expected IsKind mismatch")
	}
	if CodeOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", CodeOf(err))
	}
	if CodeOf(fmt.Errorf("plain")) != http.StatusInternalServerError {
		t.Errorf("expected 500 for plain error, got %d", CodeOf(fmt.Errorf("plain")))
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := DownloadFailed("op", cause, "download broke")
	if err.Unwrap() != cause {
		t.Error("Unwrap did not return the cause")
	}
}
