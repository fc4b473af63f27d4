package models

// ExtractRequest is the incoming extraction request.
type ExtractRequest struct {
	URL      string `json:"url"`
	Language string `json:"language,omitempty"`
}

// Extraction result statuses.
type Status string

const (
	StatusCached  Status = "cached"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ExtractResult is the exposed extraction outcome. Cached and success share
// the same shape; error responses carry a machine-readable reason instead.
type ExtractResult struct {
	Status           Status    `json:"status"`
	ContentID        string    `json:"content_id,omitempty"`
	Strategy         string    `json:"strategy,omitempty"`
	ExtractionMethod string    `json:"extraction_method,omitempty"`
	Metadata         *Metadata `json:"metadata,omitempty"`
	TranscriptLength int       `json:"transcript_length,omitempty"`
	TotalChunks      int       `json:"total_chunks"`
	ProcessingTime   float64   `json:"processing_time"`
	ErrorReason      string    `json:"error_reason,omitempty"`
}

// ContentResponse is the read surface for a stored extraction.
type ContentResponse struct {
	Content *Content `json:"content"`
	Chunks  []Chunk  `json:"chunks"`
}
