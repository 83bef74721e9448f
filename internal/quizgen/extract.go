package quizgen

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

const fence = "```"

// extractJSON recovers a JSON payload from free-form model text. Text that
// is already a JSON array or object comes back trimmed. Otherwise a
// markdown fence (with or without an info string such as "json") is
// stripped, and failing that the first array of records, then the first
// object, embedded in prose is returned. When nothing usable is found the
// trimmed text is returned unchanged so the parser reports the failure.
func extractJSON(text string) string {
	s := strings.TrimSpace(text)
	if isJSON(s) {
		return s
	}

	if i := strings.Index(s, fence); i >= 0 {
		body := s[i+len(fence):]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "[{") {
			body = body[nl+1:]
		} else {
			body = strings.TrimLeftFunc(body, unicode.IsLetter)
		}
		if end := strings.Index(body, fence); end >= 0 {
			body = body[:end]
		}
		if body = strings.TrimSpace(body); isJSON(body) {
			return body
		}
	}

	if v, ok := embedded(s, '[', recordArray); ok {
		return v
	}
	if v, ok := embedded(s, '{', nil); ok {
		return v
	}
	return s
}

func isJSON(s string) bool {
	return (strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")) && json.Valid([]byte(s))
}

// embedded returns the first JSON value in s that opens with open and
// satisfies accept (nil accepts anything). Each candidate is decoded up to
// the end of its own value, so brackets in surrounding prose on either
// side do not hide it.
func embedded(s string, open byte, accept func(json.RawMessage) bool) (string, bool) {
	for i := strings.IndexByte(s, open); i >= 0; {
		var v json.RawMessage
		if err := json.NewDecoder(strings.NewReader(s[i:])).Decode(&v); err == nil {
			if accept == nil || accept(v) {
				return string(v), true
			}
		}
		next := strings.IndexByte(s[i+1:], open)
		if next < 0 {
			break
		}
		i += next + 1
	}
	return "", false
}

// recordArray rejects arrays holding anything but objects, such as a
// "[1]" footnote marker ahead of the real payload.
func recordArray(v json.RawMessage) bool {
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil {
		return false
	}
	for _, e := range elems {
		if !bytes.HasPrefix(bytes.TrimSpace(e), []byte("{")) {
			return false
		}
	}
	return true
}
