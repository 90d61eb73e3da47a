package runtime

import (
	"context"

	"github.com/aretw0/stylist/pkg/domain"
)

// AppendText appends a message at the end of the log and persists it.
func (s *Session) AppendText(ctx context.Context, role domain.Role, content string, kind domain.Kind) (domain.Message, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Message{}, domain.ErrSessionClosed
	}
	msg, ev := s.appendLocked(ctx, role, content, kind, "")
	s.persistMessages(ctx)
	s.mu.Unlock()

	fire([]func(){ev})
	return msg, nil
}

// AppendImage appends a user photo message carrying imageRef and persists it.
func (s *Session) AppendImage(ctx context.Context, imageRef string) (domain.Message, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Message{}, domain.ErrSessionClosed
	}
	msg, ev := s.appendLocked(ctx, domain.RoleUser, domain.ImageCaption, domain.KindImage, imageRef)
	s.persistMessages(ctx)
	s.mu.Unlock()

	fire([]func(){ev})
	return msg, nil
}

// appendLocked adds a message and returns the deferred append hook.
// Caller must hold s.mu and persist the log afterwards.
func (s *Session) appendLocked(ctx context.Context, role domain.Role, content string, kind domain.Kind, imageRef string) (domain.Message, func()) {
	created := s.now()
	if n := len(s.messages); n > 0 && created.Before(s.messages[n-1].CreatedAt) {
		created = s.messages[n-1].CreatedAt
	}

	msg := domain.Message{
		ID:        s.newID(),
		Role:      role,
		Content:   content,
		CreatedAt: created,
		Kind:      kind,
		ImageRef:  imageRef,
	}
	s.messages = append(s.messages, msg)
	s.logger.Debug("message appended", "session_id", s.id, "message_id", msg.ID, "role", role, "kind", kind)

	hook := s.hooks.OnMessageAppend
	if hook == nil {
		return msg, nil
	}
	ev := &domain.MessageEvent{EventBase: s.base(domain.EventMessageAppend), Message: msg}
	return msg, func() { hook(ctx, ev) }
}
