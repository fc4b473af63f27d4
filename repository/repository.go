package repository

import (
	"context"

	"yt-ingest/models"
)

// CachedContent is a FindByURL hit: the stored content plus the chunk
// summary recorded when it was chunked.
type CachedContent struct {
	Content    *models.Content
	ChunkCount int
	Strategy   string
}

// ContentRepository is the content-addressed cache: it is authoritative for
// idempotency. A FindByURL hit short-circuits the whole extraction pipeline.
type ContentRepository interface {
	// FindByURL returns the stored content for a URL with its chunk count
	// and chunking strategy, or a not-found error.
	FindByURL(ctx context.Context, url string) (*CachedContent, error)

	// FindContent returns the stored content by ID.
	FindContent(ctx context.Context, id string) (*models.Content, error)

	// FindChunks returns the chunk set for a content, ordered by index.
	FindChunks(ctx context.Context, contentID string) ([]models.Chunk, error)

	// SaveContent stores content keyed by its content hash. Storing the same
	// hash again is a no-op that returns the existing ID.
	SaveContent(ctx context.Context, content *models.Content) (string, error)

	// ReplaceChunks atomically swaps the full chunk set for a content and
	// records the strategy that produced it.
	ReplaceChunks(ctx context.Context, contentID string, chunks []models.Chunk, strategyName string) error
}
