// Package jsonextract pulls the first balanced brace-delimited JSON
// object out of free text, tolerating the prose and code fences LLM
// responses wrap around structured output.
package jsonextract

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrNoObject is returned when the text contains no parseable JSON
// object. Callers treat this as an absent result, not a failure.
var ErrNoObject = errors.New("no JSON object found in text")

// FirstObject finds the first balanced {...} substring that parses as a
// JSON object and unmarshals it into target. Nested braces inside
// strings are handled by tracking string state and escapes.
func FirstObject(text string, target any) error {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				candidate := text[start : i+1]
				if err := json.Unmarshal([]byte(candidate), target); err == nil {
					return nil
				}
				// Keep scanning; a later balanced object may parse.
				start = -1
			}
		}
	}

	return ErrNoObject
}
