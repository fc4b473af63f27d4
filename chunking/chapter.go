package chunking

import (
	"strings"

	"yt-ingest/chapters"
	"yt-ingest/models"
)

// chunkByChapters emits one chunk per chapter from the segments whose start
// falls inside the chapter's [start, end) range. Chapters with no matching
// segments produce no chunk.
func (e *Engine) chunkByChapters(
	segments []models.TranscriptSegment,
	chaps []models.Chapter,
	duration float64,
) []models.Chunk {
	resolved := chapters.ResolveEnds(chaps, duration)

	var chunks []models.Chunk
	for _, chapter := range resolved {
		start := chapter.StartSeconds
		end := duration
		if chapter.EndSeconds != nil {
			end = *chapter.EndSeconds
		}

		var parts []string
		for _, seg := range segments {
			if seg.StartSeconds >= start && seg.StartSeconds < end {
				parts = append(parts, seg.Text)
			}
		}
		if len(parts) == 0 {
			continue
		}

		text := strings.Join(parts, " ")
		startTS, endTS := start, end
		chunks = append(chunks, models.Chunk{
			Index:        len(chunks),
			Text:         text,
			StartTS:      &startTS,
			EndTS:        &endTS,
			CharLen:      len(text),
			TokenCount:   e.tokenCount(text),
			ChapterTitle: chapter.Title,
		})
	}

	return chunks
}
