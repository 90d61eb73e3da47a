package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter     EventType = "step_enter"
	EventMessageAppend EventType = "message_append"
	EventLikeToggle    EventType = "like_toggle"
	EventReply         EventType = "reply"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// StepEvent is emitted after the current step changed.
type StepEvent struct {
	EventBase
	From Step `json:"from"`
	To   Step `json:"to"`
}

// MessageEvent is emitted after a message was appended to the log.
type MessageEvent struct {
	EventBase
	Message Message `json:"message"`
}

// LikeEvent is emitted after an outfit was toggled.
type LikeEvent struct {
	EventBase
	OutfitID OutfitID `json:"outfit_id"`
	Liked    bool     `json:"liked"`
}

// ReplyEvent is emitted once the AI collaborator answered (or failed to).
type ReplyEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	Fallback bool          `json:"fallback"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for session observability.
// Hooks run after the session lock is released, so they may read the session.
type LifecycleHooks struct {
	OnStepEnter     func(context.Context, *StepEvent)
	OnMessageAppend func(context.Context, *MessageEvent)
	OnLikeToggle    func(context.Context, *LikeEvent)
	OnReply         func(context.Context, *ReplyEvent)
}
