package subtitles

import (
	"math"
	"testing"
)

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseCueText(t *testing.T) {
	payload := `WEBVTT
Kind: captions
Language: en

00:00:01.000 --> 00:00:04.000
Welcome to the show

00:00:04.500 --> 00:00:08.000
<c.colorCCCCCC>Today we talk</c> about Go

not a time range
just some text

00:00:09.000 --> 00:00:12.000
[Music]

00:00:12.000 --> 00:00:15.000
Let's get started`

	parser := NewParser()
	segments, fullText := parser.Parse([]byte(payload))

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}

	if segments[0].Text != "Welcome to the show" {
		t.Errorf("unexpected first segment text: %q", segments[0].Text)
	}
	if !floatEq(segments[0].StartSeconds, 1) || !floatEq(segments[0].DurationSeconds, 3) {
		t.Errorf("unexpected first segment timing: start=%v dur=%v",
			segments[0].StartSeconds, segments[0].DurationSeconds)
	}

	if segments[1].Text != "Today we talk about Go" {
		t.Errorf("markup not stripped: %q", segments[1].Text)
	}

	if segments[2].Text != "Let's get started" {
		t.Errorf("unexpected last segment text: %q", segments[2].Text)
	}

	expected := "Welcome to the show Today we talk about Go Let's get started"
	if fullText != expected {
		t.Errorf("expected full text %q, got %q", expected, fullText)
	}

	for i := 1; i < len(segments); i++ {
		if segments[i].StartSeconds < segments[i-1].StartSeconds {
			t.Errorf("segment starts not non-decreasing at index %d", i)
		}
	}
}

func TestParseCueTextMalformedBlocks(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{
			name:    "empty payload",
			payload: "",
			want:    0,
		},
		{
			name:    "header only",
			payload: "WEBVTT\n\n",
			want:    0,
		},
		{
			name:    "end before start",
			payload: "00:00:10.000 --> 00:00:05.000\nbackwards cue",
			want:    0,
		},
		{
			name:    "garbage timestamps",
			payload: "aa:bb --> cc:dd\nsome text",
			want:    0,
		},
		{
			name:    "valid after malformed",
			payload: "bad line\n\n00:10.000 --> 00:12.000\ngood cue",
			want:    1,
		},
		{
			name:    "cue settings after end timestamp",
			payload: "00:00:01.000 --> 00:00:03.000 align:start position:0%\nwith settings",
			want:    1,
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, _ := parser.Parse([]byte(tt.payload))
			if len(segments) != tt.want {
				t.Errorf("expected %d segments, got %d", tt.want, len(segments))
			}
		})
	}
}

func TestParseEventList(t *testing.T) {
	payload := `{
		"events": [
			{"tStartMs": 0, "dDurationMs": 2000, "segs": [{"utf8": "Hello"}, {"utf8": " world"}]},
			{"tStartMs": 2500, "dDurationMs": 1500},
			{"tStartMs": 4000, "dDurationMs": 1000, "segs": [{"utf8": "\n"}]},
			{"tStartMs": 5000, "dDurationMs": 3000, "segs": [{"utf8": "second line"}]}
		]
	}`

	parser := NewParser()
	segments, fullText := parser.Parse([]byte(payload))

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "Hello world" {
		t.Errorf("unexpected first segment text: %q", segments[0].Text)
	}
	if !floatEq(segments[0].StartSeconds, 0) || !floatEq(segments[0].DurationSeconds, 2) {
		t.Errorf("unexpected first segment timing: %+v", segments[0])
	}
	if !floatEq(segments[1].StartSeconds, 5) {
		t.Errorf("expected second segment at 5s, got %v", segments[1].StartSeconds)
	}
	if fullText != "Hello world second line" {
		t.Errorf("unexpected full text: %q", fullText)
	}
}

func TestParseEventListInvalidJSON(t *testing.T) {
	parser := NewParser()
	segments, fullText := parser.Parse([]byte("{not json"))
	if segments != nil || fullText != "" {
		t.Errorf("expected empty result for invalid JSON, got %d segments", len(segments))
	}
}

func TestCleanCueText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"markup tags", "<c>styled</c> text", "styled text"},
		{"music annotation", "[Music] actual speech", "actual speech"},
		{"nested brackets", "[Applause [loud]] hello", "hello"},
		{"unbalanced closing", "a] b", "a] b"},
		{"whitespace collapse", "a   b\t c", "a b c"},
		{"annotation only", "[Laughter]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCueText(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"00:00:05.500", 5.5, true},
		{"01:02:03", 3723, true},
		{"02:30", 150, true},
		{"00:00:05,500", 5.5, true},
		{"5", 0, false},
		{"aa:bb", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseClock(tt.input)
		if ok != tt.ok || (ok && !floatEq(got, tt.want)) {
			t.Errorf("parseClock(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
