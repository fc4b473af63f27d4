package youtube

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// decodePlayerResponse extracts the balanced-brace JSON object at the start
// of data and unmarshals it. The player response is embedded mid-script, so
// the object's end has to be found by brace matching, not by delimiter.
func decodePlayerResponse(data []byte) (*playerResponse, error) {
	obj := extractJSONObject(data)
	if obj == nil {
		return nil, errors.New("failed to extract player response JSON")
	}

	var player playerResponse
	if err := json.Unmarshal(obj, &player); err != nil {
		return nil, errors.Wrap(err, "decode player response")
	}
	return &player, nil
}

// extractJSONObject returns the first complete {...} object in data,
// tracking string literals and escapes so braces inside strings don't
// terminate the scan.
func extractJSONObject(data []byte) []byte {
	start := -1
	for i, b := range data {
		if b == '{' {
			start = i
			break
		}
		// Only whitespace may precede the object.
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
			return nil
		}
	}
	if start < 0 {
		return nil
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(data); i++ {
		b := data[i]
		switch {
		case escaped:
			escaped = false
		case b == '\\' && inString:
			escaped = true
		case b == '"':
			inString = !inString
		case inString:
		case b == '{':
			depth++
		case b == '}':
			depth--
			if depth == 0 {
				return data[start : i+1]
			}
		}
	}
	return nil
}
