package chunking

import (
	"fmt"

	"yt-ingest/chapters"
	"yt-ingest/models"
)

// Strategy names recorded next to stored chunk sets.
const StrategyChapterBased = "chapter_based"

// Engine turns extracted content into an ordered, timestamp-anchored chunk
// sequence. It is pure and performs no I/O; one Engine is safe for
// concurrent use because all per-call state lives on the stack.
type Engine struct {
	gate      chapters.Gate
	chunkSize int
	overlap   int
	counter   UnitCounter
}

type Config struct {
	Gate      chapters.Gate
	ChunkSize int
	Overlap   int
	Counter   UnitCounter
}

func NewEngine(cfg Config) *Engine {
	counter := cfg.Counter
	if counter == nil {
		counter = RuneCounter{}
	}
	return &Engine{
		gate:      cfg.Gate,
		chunkSize: cfg.ChunkSize,
		overlap:   cfg.Overlap,
		counter:   counter,
	}
}

// SelectAndChunk picks a strategy for the given inputs and runs it. The
// chapter-based strategy is used iff the chapter set passes the usability
// gate; otherwise the fixed-window strategy applies. Chunk indexes are
// contiguous 0..N-1 in both cases.
func (e *Engine) SelectAndChunk(
	content string,
	segments []models.TranscriptSegment,
	chaps []models.Chapter,
	duration float64,
) ([]models.Chunk, string) {
	if e.gate.Usable(chaps, duration) {
		return e.chunkByChapters(segments, chaps, duration), StrategyChapterBased
	}
	return e.chunkFixedWindow(content, segments, duration), e.fixedStrategyName()
}

func (e *Engine) fixedStrategyName() string {
	return fmt.Sprintf("fixed_size_%d", e.chunkSize)
}

func (e *Engine) tokenCount(text string) *int {
	if !e.counter.Tokens() {
		return nil
	}
	n := e.counter.Count(text)
	return &n
}
