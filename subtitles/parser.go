package subtitles

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"yt-ingest/models"
)

// Parser converts raw caption payloads into ordered transcript segments plus
// the whitespace-joined full text. Two payload shapes are understood: cue
// text (WebVTT-style blocks with an arrow-separated time range) and the
// JSON event list YouTube serves as json3. Parsing is defensive: malformed
// cues and events are dropped, never fatal.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

var (
	markupTagRE  = regexp.MustCompile(`<[^>]+>`)
	whitespaceRE = regexp.MustCompile(`\s+`)
	blockSplitRE = regexp.MustCompile(`\n\s*\n`)
)

// Parse sniffs the payload shape and dispatches to the matching parser.
func (p *Parser) Parse(payload []byte) ([]models.TranscriptSegment, string) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return nil, ""
	}
	if strings.HasPrefix(trimmed, "{") {
		return p.ParseEventList(payload)
	}
	return p.ParseCueText(trimmed)
}

// ParseCueText parses blank-line-delimited cue blocks. Blocks without a valid
// arrow-separated time range are skipped.
func (p *Parser) ParseCueText(payload string) ([]models.TranscriptSegment, string) {
	var segments []models.TranscriptSegment
	var textParts []string

	for _, block := range blockSplitRE.Split(payload, -1) {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}

		timeLine := ""
		var textLines []string
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timeLine = line
				textLines = lines[i+1:]
				break
			}
		}
		if timeLine == "" || len(textLines) == 0 {
			continue
		}

		start, end, ok := parseTimeRange(timeLine)
		if !ok {
			continue
		}

		text := CleanCueText(strings.Join(textLines, " "))
		if text == "" {
			continue
		}

		segments = append(segments, models.TranscriptSegment{
			Text:            text,
			StartSeconds:    start,
			DurationSeconds: end - start,
		})
		textParts = append(textParts, text)
	}

	return segments, strings.Join(textParts, " ")
}

// eventList mirrors YouTube's json3 caption format.
type eventList struct {
	Events []struct {
		TStartMs    int64 `json:"tStartMs"`
		DDurationMs int64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// ParseEventList parses a json3 event list, concatenating each event's text
// fragments in order.
func (p *Parser) ParseEventList(payload []byte) ([]models.TranscriptSegment, string) {
	var list eventList
	if err := json.Unmarshal(payload, &list); err != nil {
		return nil, ""
	}

	var segments []models.TranscriptSegment
	var textParts []string

	for _, event := range list.Events {
		if len(event.Segs) == 0 {
			continue
		}

		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}

		text := CleanCueText(sb.String())
		if text == "" {
			continue
		}

		segments = append(segments, models.TranscriptSegment{
			Text:            text,
			StartSeconds:    float64(event.TStartMs) / 1000,
			DurationSeconds: float64(event.DDurationMs) / 1000,
		})
		textParts = append(textParts, text)
	}

	return segments, strings.Join(textParts, " ")
}

// CleanCueText strips markup tags and bracketed non-speech annotations
// ([Music], [Applause]) and collapses whitespace.
func CleanCueText(text string) string {
	text = markupTagRE.ReplaceAllString(text, "")
	text = stripBracketed(text)
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// stripBracketed removes bracketed annotation tokens by bracket matching, so
// nested brackets are removed whole. Unbalanced closing brackets are kept.
func stripBracketed(text string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// parseTimeRange parses a "start --> end" cue header line.
func parseTimeRange(line string) (start, end float64, ok bool) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	start, okStart := parseClock(strings.TrimSpace(parts[0]))
	// Cue settings may trail the end timestamp.
	endFields := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endFields) == 0 {
		return 0, 0, false
	}
	end, okEnd := parseClock(endFields[0])

	if !okStart || !okEnd || end < start {
		return 0, 0, false
	}
	return start, end, true
}

// parseClock parses H:MM:SS(.mmm) or MM:SS(.mmm) into seconds. A comma
// millisecond separator is accepted too.
func parseClock(ts string) (float64, bool) {
	ts = strings.ReplaceAll(ts, ",", ".")
	parts := strings.Split(ts, ":")

	var total float64
	switch len(parts) {
	case 3:
		h, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, false
		}
		total += h * 3600
		parts = parts[1:]
		fallthrough
	case 2:
		m, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, false
		}
		s, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, false
		}
		total += m*60 + s
	default:
		return 0, false
	}

	if total < 0 {
		return 0, false
	}
	return total, true
}
