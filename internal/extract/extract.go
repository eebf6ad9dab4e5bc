// Package extract recovers structured JSON from free-form language-model
// output. Models are unreliable about formatting: sometimes they return raw
// JSON, sometimes a fenced code block, sometimes JSON wrapped in prose. The
// strategies here degrade from strict to lenient, first success wins.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"dndtools/internal/domain"
)

var fencedJSONRe = regexp.MustCompile("(?is)```json\\s*(\\{.*?\\})\\s*```")

// Object recovers a single JSON object from text. It tries, in order:
// parsing the whole trimmed text, parsing the interior of a ```json fenced
// block, and parsing the substring between the first '{' and the last '}'.
// When nothing parses it fails with *domain.ExtractionError carrying the
// original text.
func Object(text string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		if raw, ok := parseObject(trimmed); ok {
			return raw, nil
		}
	}

	if m := fencedJSONRe.FindStringSubmatch(trimmed); m != nil {
		if raw, ok := parseObject(m[1]); ok {
			return raw, nil
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		if raw, ok := parseObject(trimmed[start : end+1]); ok {
			return raw, nil
		}
	}

	return nil, &domain.ExtractionError{Raw: text}
}

func parseObject(candidate string) (json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, false
	}
	return json.RawMessage(candidate), true
}
