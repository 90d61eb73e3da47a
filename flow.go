package stylist

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/stylist/internal/runtime"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
)

// Session drives one guided conversation. Its flow operations only run at the step
// that accepts them and return a Pending for the work they issue.
type Session struct {
	rt          *runtime.Session
	transcriber ports.Transcriber
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.rt.ID() }

// Step returns the current step.
func (s *Session) Step() domain.Step { return s.rt.Step() }

// Processing reports whether a transition or a reply is in flight.
func (s *Session) Processing() bool { return s.rt.Processing() }

// Messages returns a copy of the conversation log.
func (s *Session) Messages() []domain.Message { return s.rt.Messages() }

// Liked returns the liked outfit IDs in the order they were liked.
func (s *Session) Liked() []domain.OutfitID { return s.rt.Liked() }

// IsLiked reports whether the outfit is liked.
func (s *Session) IsLiked(id domain.OutfitID) bool { return s.rt.IsLiked(id) }

// Snapshot returns a consistent copy of the session.
func (s *Session) Snapshot() domain.Snapshot { return s.rt.Snapshot() }

// Start leaves the welcome step.
func (s *Session) Start(ctx context.Context) (*Pending, error) {
	if err := s.gate(domain.StepWelcome, true); err != nil {
		return nil, err
	}
	return s.rt.Advance(ctx), nil
}

// Capture records the photo taken at the photo step and moves on.
// A second capture while the first is still advancing is rejected with ErrBusy.
func (s *Session) Capture(ctx context.Context, imageRef string) (*Pending, error) {
	if err := s.gate(domain.StepPhoto, true); err != nil {
		return nil, err
	}
	if strings.TrimSpace(imageRef) == "" {
		return nil, domain.ErrEmptyCapture
	}
	if _, err := s.rt.AppendImage(ctx, imageRef); err != nil {
		return nil, err
	}
	return s.rt.Advance(ctx), nil
}

// Recording transcribes the voice note taken at the lifestyle step, appends it and moves on.
func (s *Session) Recording(ctx context.Context, audio []byte) (*Pending, error) {
	if err := s.gate(domain.StepLifestyle, true); err != nil {
		return nil, err
	}
	text, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe recording: %w", err)
	}
	if _, err := s.rt.AppendText(ctx, domain.RoleUser, text, domain.KindVoice); err != nil {
		return nil, err
	}
	return s.rt.Advance(ctx), nil
}

// ToggleLike flips an outfit in the liked set. It is accepted at any step.
func (s *Session) ToggleLike(ctx context.Context, id domain.OutfitID) (bool, error) {
	return s.rt.ToggleLike(ctx, id)
}

// Continue leaves the outfit step once at least one outfit is liked.
func (s *Session) Continue(ctx context.Context) (*Pending, error) {
	if err := s.gate(domain.StepOutfitPreferences, true); err != nil {
		return nil, err
	}
	if len(s.rt.Liked()) == 0 {
		return nil, domain.ErrNoLikedOutfits
	}
	return s.rt.Advance(ctx), nil
}

// Submit appends the style request and asks the AI collaborator for advice.
func (s *Session) Submit(ctx context.Context, text string) (*Pending, error) {
	if err := s.gate(domain.StepFinalRequest, true); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyRequest
	}
	if _, err := s.rt.AppendText(ctx, domain.RoleUser, text, domain.KindText); err != nil {
		return nil, err
	}
	return s.rt.DispatchReply(ctx), nil
}

func (s *Session) gate(step domain.Step, idle bool) error {
	if idle && s.rt.Processing() {
		return domain.ErrBusy
	}
	if current := s.rt.Step(); current != step {
		return fmt.Errorf("%w: at %s, expected %s", domain.ErrStepMismatch, current, step)
	}
	return nil
}
