package extraction

import (
	"context"
	"time"

	"yt-ingest/models"
)

type Service interface {
	// Extract runs the full pipeline for a URL: cache lookup, metadata,
	// transcript resolution, persistence and chunking. A cache hit returns
	// immediately without touching the origin.
	Extract(ctx context.Context, req models.ExtractRequest) (*models.ExtractResult, error)

	// GetContent retrieves a stored extraction with its chunk set.
	GetContent(ctx context.Context, id string) (*models.ContentResponse, error)
}

// Gate paces origin-bound calls. Acquire blocks until the caller may
// proceed, reporting how long it waited.
type Gate interface {
	Acquire(ctx context.Context) (time.Duration, error)
}

// MetadataProvider resolves video metadata. Providers form a fallback chain
// ordered by fidelity; Available reports whether the provider is usable with
// the current configuration.
type MetadataProvider interface {
	Name() string
	Available() bool
	GetMetadata(ctx context.Context, source models.SourceRef) (*models.Metadata, error)
}

// CaptionSource lists and fetches caption tracks from the video origin.
type CaptionSource interface {
	ListTracks(ctx context.Context, videoID string) ([]models.CaptionTrack, error)
	Fetch(ctx context.Context, trackURL string) ([]byte, error)
}

// AudioDownloader fetches the audio stream of a video to a local file.
type AudioDownloader interface {
	Download(ctx context.Context, url string) (string, error)
}

// SpeechTranscriber converts a local audio file to plain text.
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, audioPath, languageHint string) (string, error)
}

// AudioStore archives audio files to durable storage.
type AudioStore interface {
	UploadAudio(ctx context.Context, localPath string) (string, error)
}

type Config struct {
	// LanguagePriority orders caption track selection when the request
	// carries no language.
	LanguagePriority []string `json:"language_priority"`

	// MaxDuration caps videos eligible for the audio transcription
	// fallback. Zero means no cap.
	MaxDuration time.Duration `json:"max_duration"`

	// Per-stage timeouts.
	MetadataTimeout   time.Duration `json:"metadata_timeout"`
	CaptionTimeout    time.Duration `json:"caption_timeout"`
	DownloadTimeout   time.Duration `json:"download_timeout"`
	TranscribeTimeout time.Duration `json:"transcribe_timeout"`

	// ArchiveAudio uploads downloaded audio to the configured store after
	// a successful transcription.
	ArchiveAudio bool `json:"archive_audio"`
}
