package youtube

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple object",
			input: `{"a":1};var next = 2;`,
			want:  `{"a":1}`,
		},
		{
			name:  "nested objects",
			input: `{"a":{"b":{"c":1}}} trailing`,
			want:  `{"a":{"b":{"c":1}}}`,
		},
		{
			name:  "braces inside strings",
			input: `{"a":"}{","b":2};`,
			want:  `{"a":"}{","b":2}`,
		},
		{
			name:  "escaped quote inside string",
			input: `{"a":"he said \"}\" loudly"};`,
			want:  `{"a":"he said \"}\" loudly"}`,
		},
		{
			name:  "leading whitespace",
			input: "  \n\t{\"a\":1};",
			want:  `{"a":1}`,
		},
		{
			name:  "non-whitespace prefix",
			input: `var x = {"a":1};`,
			want:  "",
		},
		{
			name:  "unterminated object",
			input: `{"a":{"b":1}`,
			want:  "",
		},
		{
			name:  "no object",
			input: `   `,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSONObject([]byte(tt.input))
			if string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, string(got))
			}
		})
	}
}

func TestDecodePlayerResponse(t *testing.T) {
	payload := `{
		"captions": {
			"playerCaptionsTracklistRenderer": {
				"captionTracks": [
					{"baseUrl": "https://captions/en", "languageCode": "en", "kind": ""},
					{"baseUrl": "https://captions/ru", "languageCode": "ru", "kind": "asr"}
				]
			}
		},
		"playabilityStatus": {"status": "OK"}
	};var meta = {};`

	player, err := decodePlayerResponse([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].LanguageCode != "en" || tracks[0].Kind != "" {
		t.Errorf("unexpected first track: %+v", tracks[0])
	}
	if tracks[1].Kind != "asr" {
		t.Errorf("expected asr kind for second track, got %q", tracks[1].Kind)
	}

	if _, err := decodePlayerResponse([]byte("not json at all")); err == nil {
		t.Error("expected error for non-JSON input")
	}
}
