package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var iso8601DurationRE = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISO8601Duration converts an ISO 8601 duration (PT12M31S) to seconds.
func ParseISO8601Duration(s string) (float64, error) {
	m := iso8601DurationRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid ISO 8601 duration: %q", s)
	}

	var total float64
	if m[1] != "" {
		h, _ := strconv.Atoi(m[1])
		total += float64(h) * 3600
	}
	if m[2] != "" {
		min, _ := strconv.Atoi(m[2])
		total += float64(min) * 60
	}
	if m[3] != "" {
		sec, _ := strconv.Atoi(m[3])
		total += float64(sec)
	}
	return total, nil
}

// FormatTimestamp renders seconds as H:MM:SS, or M:SS under an hour.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// TruncateString shortens s for log fields, cutting on a rune boundary.
func TruncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
