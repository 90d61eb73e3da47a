package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
)

// Slot names. Each session owns one key per slot.
const (
	SlotMessages = "chat-messages"
	SlotStep     = "current-step"
	SlotLiked    = "liked-outfits"
)

// Slots lists every slot a session persists.
func Slots() []string {
	return []string{SlotMessages, SlotStep, SlotLiked}
}

// SlotKey returns the store key of a slot. An empty session ID yields the bare slot name.
func SlotKey(sessionID, slot string) string {
	if sessionID == "" {
		return slot
	}
	return sessionID + "/" + slot
}

// SessionIDFromKey extracts the session ID from a log slot key.
// Only the log slot is considered: it is written when a session is seeded,
// and each session is reported once.
func SessionIDFromKey(key string) (string, bool) {
	if key == SlotMessages {
		return "", true
	}
	id, ok := strings.CutSuffix(key, "/"+SlotMessages)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Purge removes every slot of a session from the store.
func Purge(ctx context.Context, store ports.KVStore, sessionID string) error {
	var errs []error
	for _, slot := range Slots() {
		if err := store.Delete(ctx, SlotKey(sessionID, slot)); err != nil && !errors.Is(err, ports.ErrNotFound) {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", slot, err))
		}
	}
	return errors.Join(errs...)
}

// load restores the three slots. Absent or malformed slots keep their defaults.
// Must be called before the session is shared.
func (s *Session) load(ctx context.Context) {
	var messages []domain.Message
	if s.readSlot(ctx, SlotMessages, &messages) {
		s.messages = messages
	}

	var step domain.Step
	if s.readSlot(ctx, SlotStep, &step) {
		if step.Valid() {
			s.step = step
		} else {
			s.logger.Warn("ignoring out of range step", "session_id", s.id, "step", int(step))
		}
	}

	var liked []domain.OutfitID
	if s.readSlot(ctx, SlotLiked, &liked) {
		s.liked = liked
	}
}

func (s *Session) readSlot(ctx context.Context, slot string, dst any) bool {
	data, err := s.store.Get(ctx, SlotKey(s.id, slot))
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.Warn("failed to read slot", "session_id", s.id, "slot", slot, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("malformed slot, using default", "session_id", s.id, "slot", slot, "err", err)
		return false
	}
	return true
}

// writeSlot persists a slot. Failures are logged and swallowed.
// Caller must hold s.mu so writes land in mutation order.
func (s *Session) writeSlot(ctx context.Context, slot string, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = s.store.Set(ctx, SlotKey(s.id, slot), data)
	}
	if err != nil {
		s.logger.Warn("failed to persist slot", "session_id", s.id, "slot", slot, "err", err)
	}
}

func (s *Session) persistMessages(ctx context.Context) {
	s.writeSlot(ctx, SlotMessages, s.messages)
}

func (s *Session) persistStep(ctx context.Context) {
	s.writeSlot(ctx, SlotStep, s.step)
}

func (s *Session) persistLiked(ctx context.Context) {
	liked := s.liked
	if liked == nil {
		liked = []domain.OutfitID{}
	}
	s.writeSlot(ctx, SlotLiked, liked)
}
