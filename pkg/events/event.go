// Package events defines the contract for session lifecycle events published
// to the external bus.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything that can be published to the event bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "GUIDE_GENERATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// GuideGenerated fires when a study guide has been stored on a session.
func GuideGenerated(sessionId uuid.UUID, detectedDomain string, topicCount int) Event {
	return BaseEvent{
		Type: "GUIDE_GENERATED",
		Data: map[string]interface{}{
			"session_id":      sessionId.String(),
			"detected_domain": detectedDomain,
			"topic_count":     topicCount,
		},
		OccurredAt: time.Now(),
	}
}

// SessionReset fires when a session is explicitly reset to the upload stage.
func SessionReset(sessionId uuid.UUID) Event {
	return BaseEvent{
		Type: "SESSION_RESET",
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
		},
		OccurredAt: time.Now(),
	}
}
