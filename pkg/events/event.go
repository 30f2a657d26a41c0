package events

import "time"

// Event is the envelope every bus event implements.
type Event interface {
	// EventType returns the event code, e.g. "TURN_COMPLETED".
	EventType() string

	// Payload returns the event data as it will be serialized.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain value implementation of Event. The constructors below
// are preferred over building one by hand.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string { return e.Type }

func (e BaseEvent) Payload() map[string]interface{} { return e.Data }

func (e BaseEvent) Timestamp() time.Time { return e.OccurredAt }

// TurnCompleted is emitted after each committed conversational turn.
const TurnCompleted = "TURN_COMPLETED"

// NewTurnCompleted builds the event for a committed turn. The payload
// carries turn metadata only, never conversation content.
func NewTurnCompleted(sessionID, intent string, fileCount int, duration time.Duration) Event {
	return BaseEvent{
		Type: TurnCompleted,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"intent":      intent,
			"file_count":  fileCount,
			"duration_ms": duration.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}
