package chapters

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"yt-ingest/models"
)

// Timestamp-prefix patterns seen in real descriptions: separator styles
// (dash, bare space, dot) and bracketed/parenthesized stamps.
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?)\s*[-–—]\s*(.+)$`),
	regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?)\s+(.+)$`),
	regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?)\s*\.\s*(.+)$`),
	regexp.MustCompile(`^\[(\d{1,2}:\d{2}(?::\d{2})?)\]\s*(.+)$`),
	regexp.MustCompile(`^\((\d{1,2}:\d{2}(?::\d{2})?)\)\s*(.+)$`),
}

var titleTrimRE = struct {
	leading  *regexp.Regexp
	trailing *regexp.Regexp
}{
	leading:  regexp.MustCompile(`^[-–—.\s]+`),
	trailing: regexp.MustCompile(`[-–—.\s]+$`),
}

const (
	// Candidates starting within this many seconds of the previous accepted
	// chapter are treated as duplicate noise.
	minChapterGapSeconds = 10

	// Lines longer than this are prose, not chapter listings.
	maxLineLength = 200

	minTitleLength = 3
)

// Parser extracts time-bounded chapters from free-text video descriptions.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse scans description lines for timestamp-prefixed chapter entries.
// Fewer than two accepted chapters yields nil: a single stamp is more likely
// a reference than a chapter list. Each chapter's end is the next chapter's
// start; the last end stays nil for the caller to resolve against duration.
func (p *Parser) Parse(description string) []models.Chapter {
	if description == "" {
		return nil
	}

	var accepted []models.Chapter
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > maxLineLength {
			continue
		}

		chapter, ok := parseLine(line)
		if !ok {
			continue
		}
		if len(accepted) > 0 &&
			chapter.StartSeconds-accepted[len(accepted)-1].StartSeconds < minChapterGapSeconds {
			continue
		}
		accepted = append(accepted, chapter)
	}

	if len(accepted) < 2 {
		return nil
	}

	for i := 0; i < len(accepted)-1; i++ {
		end := accepted[i+1].StartSeconds
		accepted[i].EndSeconds = &end
	}
	return accepted
}

func parseLine(line string) (models.Chapter, bool) {
	for _, pattern := range linePatterns {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		title := titleTrimRE.leading.ReplaceAllString(m[2], "")
		title = titleTrimRE.trailing.ReplaceAllString(title, "")
		if utf8.RuneCountInString(title) < minTitleLength {
			continue
		}

		seconds, ok := timeToSeconds(m[1])
		if !ok {
			continue
		}

		return models.Chapter{Title: title, StartSeconds: seconds}, true
	}
	return models.Chapter{}, false
}

// timeToSeconds converts MM:SS or HH:MM:SS to seconds.
func timeToSeconds(ts string) (float64, bool) {
	parts := strings.Split(ts, ":")

	fields := make([]int, 0, 3)
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, false
		}
		fields = append(fields, n)
	}

	switch len(fields) {
	case 2:
		return float64(fields[0]*60 + fields[1]), true
	case 3:
		return float64(fields[0]*3600 + fields[1]*60 + fields[2]), true
	}
	return 0, false
}

// Gate decides whether a chapter set is good enough to drive chunking.
type Gate struct {
	MinChapters int
	MinDuration float64
	MinCoverage float64
}

func DefaultGate() Gate {
	return Gate{MinChapters: 2, MinDuration: 600, MinCoverage: 0.5}
}

// Usable reports whether the chapter set should drive chunking: enough
// chapters, a long enough video, and a last chapter deep enough into the
// video that the set is not concentrated at the start.
func (g Gate) Usable(chapters []models.Chapter, duration float64) bool {
	if len(chapters) < g.MinChapters {
		return false
	}
	if duration < g.MinDuration {
		return false
	}
	coverage := chapters[len(chapters)-1].StartSeconds / duration
	return coverage >= g.MinCoverage
}

// ResolveEnds returns a copy of chapters with the last chapter's end closed
// against the total duration.
func ResolveEnds(chapters []models.Chapter, duration float64) []models.Chapter {
	if len(chapters) == 0 {
		return nil
	}
	resolved := make([]models.Chapter, len(chapters))
	copy(resolved, chapters)
	if resolved[len(resolved)-1].EndSeconds == nil {
		end := duration
		resolved[len(resolved)-1].EndSeconds = &end
	}
	return resolved
}
