package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope that flows through the event bus. Every match
// notification (ball, milestone, commentary, result) is wrapped in one.
type Event struct {
	ID        string
	Type      EventType
	UserID    uint // owner of the match the event belongs to
	Timestamp time.Time
	Payload   any
}

type EventType string

const (
	EventBallApplied  EventType = "ball_applied"
	EventMilestone    EventType = "milestone"
	EventCommentary   EventType = "commentary"
	EventInningsBreak EventType = "innings_break"
	EventMatchResult  EventType = "match_result"
	EventMatchReset   EventType = "match_reset"
	EventStateChanged EventType = "state_changed"
)

// AllTypes lists every event type, for subscribers that want everything.
var AllTypes = []EventType{
	EventBallApplied,
	EventMilestone,
	EventCommentary,
	EventInningsBreak,
	EventMatchResult,
	EventMatchReset,
	EventStateChanged,
}

// New stamps an event with a fresh id and the current time.
func New(t EventType, userID uint, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
