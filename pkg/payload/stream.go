package payload

import (
	"encoding/json"
	"strings"

	"github.com/papercomputeco/spool/pkg/sse"
)

// doneSentinel terminates an OpenAI-style completion stream.
const doneSentinel = "[DONE]"

// streamChunk is the subset of a streaming chat-completion chunk we care
// about: the delta content of the first choice.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// looksLikeStream reports whether text appears to be a raw SSE stream.
func looksLikeStream(text string) bool {
	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		return strings.HasPrefix(line, "data:") || strings.HasPrefix(line, "event:")
	}
	return false
}

// reassembleStream concatenates the delta content fragments of an SSE
// completion stream in arrival order. Undecodable events and the [DONE]
// sentinel are skipped. Returns false when text is not SSE-shaped or no
// content was recovered, so the caller can fall back to other handling.
func reassembleStream(text string) (string, bool) {
	if !looksLikeStream(text) {
		return "", false
	}

	var sb strings.Builder
	reader := sse.NewReader(strings.NewReader(text))
	for {
		ev, err := reader.Next()
		if err != nil || ev == nil {
			break
		}
		if ev.Data == "" || ev.Data == doneSentinel {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) > 0 {
			sb.WriteString(chunk.Choices[0].Delta.Content)
		}
	}

	if sb.Len() == 0 {
		return "", false
	}
	return sb.String(), true
}
