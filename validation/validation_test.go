package validation

import (
	"testing"

	"yt-ingest/models"
)

func TestValidateURL(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name:    "Empty URL",
			url:     "",
			wantErr: true,
		},
		{
			name:    "Invalid URL format",
			url:     "://not-a-url",
			wantErr: true,
		},
		{
			name:    "Non-HTTP scheme",
			url:     "ftp://example.com/video",
			wantErr: true,
		},
		{
			name:    "JavaScript URL",
			url:     "javascript:alert(1)",
			wantErr: true,
		},
		{
			name:    "Missing host",
			url:     "https:///watch",
			wantErr: true,
		},
		{
			name:    "Valid YouTube URL",
			url:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantErr: false,
		},
		{
			name:    "Valid generic URL",
			url:     "https://example.com/videos/42",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestDetectPlatform(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		url  string
		want models.Platform
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", models.PlatformYouTube},
		{"https://youtu.be/dQw4w9WgXcQ", models.PlatformYouTube},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", models.PlatformYouTube},
		{"https://example.com/videos/42", models.PlatformGeneric},
		{"https://vimeo.com/12345", models.PlatformGeneric},
	}

	for _, tt := range tests {
		if got := validator.DetectPlatform(tt.url); got != tt.want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestExtractVideoID(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short URL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts URL", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"non-YouTube", "https://example.com/watch?v=dQw4w9WgXcQ", ""},
		{"no ID", "https://www.youtube.com/feed/subscriptions", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validator.ExtractVideoID(tt.url); got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestSourceRef(t *testing.T) {
	validator := NewValidator()

	ref, err := validator.SourceRef("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Platform != models.PlatformYouTube {
		t.Errorf("expected youtube platform, got %q", ref.Platform)
	}
	if ref.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("unexpected video ID: %q", ref.VideoID)
	}
	if len(ref.URLHash) != 64 {
		t.Errorf("expected 64-char hex hash, got %q", ref.URLHash)
	}

	// YouTube URL without an extractable ID is rejected.
	if _, err := validator.SourceRef("https://www.youtube.com/feed/subscriptions"); err == nil {
		t.Error("expected error for YouTube URL without video ID")
	}

	// Generic URLs carry no video ID.
	ref, err = validator.SourceRef("https://example.com/videos/42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Platform != models.PlatformGeneric || ref.VideoID != "" {
		t.Errorf("unexpected generic ref: %+v", ref)
	}
}
