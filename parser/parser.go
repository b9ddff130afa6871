package parser

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/FibresApp/vibecode-ai-backend/prompt"
)

// ErrInvalidResponse is returned when no JSON object can be recovered from a reply
var ErrInvalidResponse = errors.New("invalid AI response")

// ExtractJSONObject returns the first balanced {...} span in text that parses
// as a JSON object. Braces inside JSON strings are ignored, so prose around
// the object and markdown fences do not confuse it.
func ExtractJSONObject(text string) (string, error) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end := matchBrace(text, start); end >= 0 {
			span := text[start : end+1]
			if _, err := decodeObject(span); err == nil {
				return span, nil
			}
		}

		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", ErrInvalidResponse
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func decodeObject(span string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrInvalidResponse
	}
	return obj, nil
}

// ParseObject recovers the JSON object embedded in a provider reply.
// Numbers are kept as json.Number so they are returned exactly as written.
func ParseObject(text string) (map[string]any, error) {
	span, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}
	return decodeObject(span)
}

// NormalizeAnalysis makes sure every body region and "overall" is a string.
// Missing, null or non-string values become "". Other keys are left untouched.
func NormalizeAnalysis(obj map[string]any) map[string]any {
	for _, key := range prompt.BodyRegions {
		ensureString(obj, key)
	}
	ensureString(obj, "overall")
	return obj
}

// NormalizeComparison fills the comparison fields the provider may omit or
// null out. daysApart is always 0: photo timestamps are not available to the
// service.
func NormalizeComparison(obj map[string]any) map[string]any {
	ensureList(obj, "muscles")
	ensureString(obj, "overallSummary")
	ensureList(obj, "recommendations")
	ensureList(obj, "focusAreas")
	obj["daysApart"] = 0
	return obj
}

func ensureString(obj map[string]any, key string) {
	if _, ok := obj[key].(string); !ok {
		obj[key] = ""
	}
}

func ensureList(obj map[string]any, key string) {
	if _, ok := obj[key].([]any); !ok {
		obj[key] = []any{}
	}
}
