// Package mockai provides a canned AI collaborator that imitates a chat model.
package mockai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
)

// DefaultDelay is the simulated network latency.
const DefaultDelay = 1500 * time.Millisecond

// Canned replies.
const (
	ReplyLifestyle = "Thanks for sharing those details about your lifestyle! Based on what you've told me, I think styles that blend comfort and sophistication would work well for you. Let me show you some outfit options that might suit your preferences."
	ReplyOutfits   = "Based on your outfit preferences and earlier information, I'd recommend trying layered looks with neutral colors as your base. You seem to appreciate classic pieces with modern touches. Would you like me to suggest specific outfit combinations for your upcoming events?"
	ReplyDefault   = "I've analyzed your style preferences and have some great outfit suggestions for you. Let me know if you'd like to see them!"
)

// ErrEmptyConversation is returned when Reply is called without any turn.
var ErrEmptyConversation = errors.New("conversation is empty")

// Replier answers with one of three canned replies after a fixed delay.
type Replier struct {
	delay time.Duration
}

// Option configures a Replier.
type Option func(*Replier)

// WithDelay sets the simulated latency. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(r *Replier) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// New creates a canned replier.
func New(opts ...Option) *Replier {
	r := &Replier{delay: DefaultDelay}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.Replier = (*Replier)(nil)

// Reply picks a canned reply from the conversation:
// the lifestyle reply when the last turn mentions "lifestyle" or comes from the user,
// the outfits reply when any turn mentions "outfits", the default reply otherwise.
func (r *Replier) Reply(ctx context.Context, turns []domain.Turn, _ ...ports.ReplyOption) (domain.Turn, error) {
	if len(turns) == 0 {
		return domain.Turn{}, ErrEmptyConversation
	}

	if r.delay > 0 {
		timer := time.NewTimer(r.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return domain.Turn{}, ctx.Err()
		}
	}

	return domain.Turn{Role: domain.RoleAssistant, Content: pick(turns)}, nil
}

func pick(turns []domain.Turn) string {
	last := turns[len(turns)-1]
	if strings.Contains(last.Content, "lifestyle") || last.Role == domain.RoleUser {
		return ReplyLifestyle
	}
	for _, t := range turns {
		if strings.Contains(t.Content, "outfits") {
			return ReplyOutfits
		}
	}
	return ReplyDefault
}

// Transcriber ignores the recording and returns the scripted lifestyle description.
type Transcriber struct{}

var _ ports.Transcriber = Transcriber{}

func (Transcriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	return domain.LifestyleTranscript, nil
}
