// Package gateway models captured AI gateway log records.
//
// A log record is one captured request/response exchange: opaque routing
// metadata plus the leading portion of the request and response bodies as
// the gateway saw them. Records are immutable for the duration of
// processing.
package gateway

// unknownValue is reported for identifying metadata fields that are absent
// or not strings.
const unknownValue = "unknown"

// Metadata is the opaque identifying metadata attached to a log record.
// Only chatId and actionKey are interpreted; everything else rides along.
type Metadata map[string]any

// ChatID returns the chat identifier, or "unknown" when absent.
func (m Metadata) ChatID() string {
	return m.stringField("chatId")
}

// ActionKey returns the action key, or "unknown" when absent.
func (m Metadata) ActionKey() string {
	return m.stringField("actionKey")
}

func (m Metadata) stringField(key string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return unknownValue
}

// Record is the unit of work: one captured gateway exchange.
type Record struct {
	Metadata Metadata `json:"metadata"`

	// RequestHead is the captured leading portion of the request body.
	// It may itself be a JSON-encoded chat-completion envelope.
	RequestHead string `json:"request_head"`

	// ResponseHead is the captured leading portion of the response body,
	// possibly a JSON envelope or a raw SSE stream.
	ResponseHead string `json:"response_head"`
}
