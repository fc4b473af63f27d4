package chunking

import (
	"strings"

	"yt-ingest/models"
)

// cursorLookahead bounds how many segments one chunk may advance over, so a
// full estimation pass stays O(segments), not O(chunks * segments).
const cursorLookahead = 50

// segmentCursor maps chunk texts to segment time ranges with one forward
// pass. It is per-call state: never share a cursor across concurrent
// chunking calls.
type segmentCursor struct {
	segments []models.TranscriptSegment
	idx      int
}

func newSegmentCursor(segments []models.TranscriptSegment) *segmentCursor {
	return &segmentCursor{segments: segments}
}

// span scans a bounded window ahead of the cursor for segments sharing words
// with the chunk; the first and last matching segments bound the chunk's
// time range. The cursor only moves forward.
func (c *segmentCursor) span(chunkText string) (start, end float64) {
	words := wordSet(chunkText)

	seg := c.segments[c.idx]
	start = seg.StartSeconds
	end = start

	limit := c.idx + cursorLookahead
	if limit > len(c.segments) {
		limit = len(c.segments)
	}

	for i := c.idx; i < limit; i++ {
		seg := c.segments[i]
		if overlaps(words, seg.Text) {
			end = seg.EndSeconds()
			if i > c.idx {
				c.idx = i
			}
		}
	}

	return start, end
}

func wordSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func overlaps(words map[string]struct{}, segText string) bool {
	for _, w := range strings.Fields(strings.ToLower(segText)) {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}
