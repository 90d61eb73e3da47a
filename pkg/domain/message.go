package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Kind describes how a message was produced.
type Kind string

const (
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindVoice  Kind = "voice"
	KindAction Kind = "action"
)

// Message is an entry of the conversation log. It is never mutated after being appended.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Kind      Kind      `json:"kind,omitempty"`

	// ImageRef holds the captured image (usually a data URL). Set iff Kind == KindImage.
	ImageRef string `json:"image_ref,omitempty"`
}

// HasImage reports whether the message carries a captured image.
func (m Message) HasImage() bool {
	return m.ImageRef != ""
}

// Turn is a single {role, content} entry exchanged with an AI collaborator.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
