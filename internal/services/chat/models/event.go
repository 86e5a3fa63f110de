package models

// StreamEvent is one tagged value sent over the live channel during
// streaming. Delivery order must match production order; the consumer's
// connection is the sole transport, with no replay once sent.
type StreamEvent struct {
	Type      string `json:"type,omitempty"`
	Content   string `json:"content,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

const (
	EventChunk    = "chunk"
	EventComplete = "complete"
)

// ChunkEvent carries one streaming delta.
func ChunkEvent(content string) StreamEvent {
	return StreamEvent{Type: EventChunk, Content: content}
}

// CompleteEvent is the terminal event for a successful stream, carrying
// the identifier of the persisted assistant message.
func CompleteEvent(messageID string) StreamEvent {
	return StreamEvent{Type: EventComplete, MessageID: messageID}
}

// ErrorEvent is the terminal event for a failed stream.
func ErrorEvent(reason string) StreamEvent {
	return StreamEvent{Error: reason}
}
