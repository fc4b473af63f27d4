package chunking

import (
	"strings"
	"unicode"

	"yt-ingest/models"
)

// chunkFixedWindow accumulates sentences into windows of roughly chunkSize
// units with a sentence-granular overlap of at most overlap units. chunkSize
// is a soft target: a single sentence larger than it still becomes its own
// chunk. Timestamps come from one monotonic pass over the segments, or from
// an even split of the duration when no segments exist.
func (e *Engine) chunkFixedWindow(
	content string,
	segments []models.TranscriptSegment,
	duration float64,
) []models.Chunk {
	sentences := splitSentences(content)
	if len(sentences) == 0 {
		return nil
	}

	texts := e.windowSentences(sentences)
	spans := estimateSpans(texts, segments, duration)

	chunks := make([]models.Chunk, 0, len(texts))
	for i, text := range texts {
		chunk := models.Chunk{
			Index:      i,
			Text:       text,
			CharLen:    len(text),
			TokenCount: e.tokenCount(text),
		}
		if spans != nil {
			start, end := spans[i].start, spans[i].end
			chunk.StartTS = &start
			chunk.EndTS = &end
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// windowSentences greedily fills each chunk and seeds the next with the
// closed chunk's trailing sentences whose cumulative unit count fits the
// overlap budget. Sentences are never split.
func (e *Engine) windowSentences(sentences []string) []string {
	var chunks []string
	var current []string
	currentSize := 0

	for _, sentence := range sentences {
		size := e.counter.Count(sentence)

		if currentSize+size > e.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))

			var seed []string
			seedSize := 0
			for i := len(current) - 1; i >= 0; i-- {
				s := current[i]
				sSize := e.counter.Count(s)
				if seedSize+sSize > e.overlap {
					break
				}
				seed = append([]string{s}, seed...)
				seedSize += sSize
			}
			current = seed
			currentSize = seedSize
		}

		current = append(current, sentence)
		currentSize += size
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// splitSentences breaks text on sentence-terminator-then-whitespace
// boundaries, keeping the terminator with its sentence.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') &&
			i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			sentence := strings.TrimSpace(string(runes[start : i+1]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 1
		}
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

type span struct {
	start float64
	end   float64
}

// estimateSpans assigns a time range to each chunk. With segments, a single
// monotonic cursor walks the segment list once across all chunks; without
// them, the duration is split evenly.
func estimateSpans(texts []string, segments []models.TranscriptSegment, duration float64) []span {
	if len(texts) == 0 {
		return nil
	}

	if len(segments) == 0 {
		if duration <= 0 {
			return nil
		}
		per := duration / float64(len(texts))
		spans := make([]span, len(texts))
		for i := range texts {
			spans[i] = span{start: float64(i) * per, end: float64(i+1) * per}
		}
		return spans
	}

	cursor := newSegmentCursor(segments)
	spans := make([]span, len(texts))
	for i, text := range texts {
		start, end := cursor.span(text)
		spans[i] = span{start: start, end: end}
	}
	return spans
}
