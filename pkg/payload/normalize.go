// Package payload normalizes captured request and response bodies into the
// plain text that should be scanned for embedded files.
//
// Captured bodies come in several shapes: already-plain text, a JSON-encoded
// string, a chat-completion request envelope, a non-streaming response
// envelope, or a raw SSE stream from a streaming invocation. Normalization is
// best-effort and never fails: anything unrecognized is returned unchanged.
package payload

import (
	"encoding/json"
	"strings"
)

// Side identifies which half of a captured exchange a body belongs to.
// Request and response envelopes carry their text in different places.
type Side int

const (
	Request Side = iota
	Response
)

// String returns the side's name, used for output subdirectories and report
// labels.
func (s Side) String() string {
	if s == Request {
		return "request"
	}
	return "response"
}

// Normalize returns the plain text hiding inside a captured body.
//
//   - A JSON string decodes to itself.
//   - A request envelope yields its message contents joined by blank lines.
//   - A non-streaming response envelope yields choices[0].delta.content or
//     choices[0].message.content.
//   - A response-side SSE stream yields the concatenated delta contents of
//     its chunks.
//
// Any decode or lookup failure falls back to returning raw unchanged. This
// is the expected path for plain-text logs, not an error.
func Normalize(raw string, side Side) string {
	if side == Response {
		if text, ok := reassembleStream(raw); ok {
			return text
		}
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw
	}

	switch v := decoded.(type) {
	case string:
		return v
	case map[string]any:
		if side == Request {
			if text, ok := requestText(v); ok {
				return text
			}
		} else {
			if text, ok := responseText(v); ok {
				return text
			}
		}
	}

	return raw
}

// requestText concatenates the content of every message that has one,
// joined by a blank line.
func requestText(envelope map[string]any) (string, bool) {
	rawMessages, ok := envelope["messages"].([]any)
	if !ok {
		return "", false
	}

	var parts []string
	for _, m := range rawMessages {
		msg, ok := m.(map[string]any)
		if !ok {
			continue
		}
		if content, ok := msg["content"].(string); ok {
			parts = append(parts, content)
		}
	}

	return strings.Join(parts, "\n\n"), true
}

// responseText pulls the assistant text out of the first choice of a
// non-streaming or single-chunk response envelope.
func responseText(envelope map[string]any) (string, bool) {
	choices, ok := envelope["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}

	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}

	if delta, ok := choice["delta"].(map[string]any); ok {
		if content, ok := delta["content"].(string); ok {
			return content, true
		}
	}

	if message, ok := choice["message"].(map[string]any); ok {
		if content, ok := message["content"].(string); ok {
			return content, true
		}
	}

	return "", false
}
