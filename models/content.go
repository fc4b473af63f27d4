package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformGeneric Platform = "generic"
)

// Extraction methods recorded on stored content.
const (
	MethodTranscript = "transcript"
	MethodWhisper    = "whisper_transcription"
)

// SourceRef identifies a remote video asset.
type SourceRef struct {
	URL      string   `json:"url"`
	URLHash  string   `json:"url_hash"`
	Platform Platform `json:"platform"`
	VideoID  string   `json:"video_id,omitempty"`
}

// NewSourceRef builds a SourceRef with a stable URL hash.
func NewSourceRef(url string, platform Platform, videoID string) SourceRef {
	return SourceRef{
		URL:      url,
		URLHash:  HashString(url),
		Platform: platform,
		VideoID:  videoID,
	}
}

// HashString returns the hex SHA-256 of s.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ContentHash keys a Content row: the same URL with the same extracted text
// always maps to the same hash, so re-extraction is idempotent.
func ContentHash(urlHash, rawText string) string {
	return HashString(urlHash + HashString(rawText))
}

// Metadata holds resolved video metadata. All providers yield this shape.
type Metadata struct {
	Title           string    `json:"title"`
	Channel         string    `json:"channel,omitempty"`
	DurationSeconds float64   `json:"duration_seconds"`
	Description     string    `json:"description,omitempty"`
	PublishedAt     time.Time `json:"published_at,omitempty"`
	LanguageHint    string    `json:"language_hint,omitempty"`
}

// TranscriptSegment is one timed cue of a transcript.
type TranscriptSegment struct {
	Text            string  `json:"text"`
	StartSeconds    float64 `json:"start_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// EndSeconds is the segment's end offset.
func (s TranscriptSegment) EndSeconds() float64 {
	return s.StartSeconds + s.DurationSeconds
}

// Chapter is a named, time-bounded section parsed from a video description.
// EndSeconds is nil for the last chapter until resolved against duration.
type Chapter struct {
	Title        string   `json:"title"`
	StartSeconds float64  `json:"start_seconds"`
	EndSeconds   *float64 `json:"end_seconds,omitempty"`
}

// CaptionTrack describes one available caption track on a video.
type CaptionTrack struct {
	Lang        string `json:"lang"`
	IsGenerated bool   `json:"is_generated"`
	URL         string `json:"url"`
}

// Content is one extracted video: metadata plus the transcript text it was
// resolved to. Metadata without text is never stored.
type Content struct {
	ID               string    `json:"id"`
	Source           SourceRef `json:"source"`
	Metadata         Metadata  `json:"metadata"`
	RawText          string    `json:"raw_text,omitempty"`
	AudioRef         string    `json:"audio_ref,omitempty"`
	ExtractionMethod string    `json:"extraction_method"`
	CreatedAt        time.Time `json:"created_at"`
}

// Hash returns the content-addressed key for this row.
func (c *Content) Hash() string {
	return ContentHash(c.Source.URLHash, c.RawText)
}

// Chunk is a retrieval-sized slice of extracted text, optionally anchored to
// a time range of the source video.
type Chunk struct {
	ContentID    string   `json:"content_id"`
	Index        int      `json:"index"`
	Text         string   `json:"text"`
	StartTS      *float64 `json:"start_ts,omitempty"`
	EndTS        *float64 `json:"end_ts,omitempty"`
	CharLen      int      `json:"char_len"`
	TokenCount   *int     `json:"token_count,omitempty"`
	ChapterTitle string   `json:"chapter_title,omitempty"`
}
