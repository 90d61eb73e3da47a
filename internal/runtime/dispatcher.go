package runtime

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/stylist/pkg/domain"
	"github.com/samber/lo"
)

var (
	errNoReplier  = errors.New("no replier configured")
	errEmptyReply = errors.New("replier returned an empty reply")
)

// BuildPayload maps the log and the liked set to the turns sent to the AI collaborator.
// System messages are dropped, image messages are marked, and a summary of the liked
// outfits is appended when there is any.
func BuildPayload(messages []domain.Message, liked []domain.OutfitID) []domain.Turn {
	turns := lo.FilterMap(messages, func(m domain.Message, _ int) (domain.Turn, bool) {
		if m.Role == domain.RoleSystem {
			return domain.Turn{}, false
		}
		content := m.Content
		if m.HasImage() {
			content = domain.ImageMarker + content
		}
		return domain.Turn{Role: m.Role, Content: content}, true
	})

	if len(liked) > 0 {
		ids := lo.Map(liked, func(id domain.OutfitID, _ int) string {
			return strconv.Itoa(int(id))
		})
		turns = append(turns, domain.Turn{
			Role:    domain.RoleUser,
			Content: domain.LikedSummaryPrefix + strings.Join(ids, ", "),
		})
	}
	return turns
}

// DispatchReply asks the AI collaborator for a reply to the current conversation and
// appends it, or the fallback apology on failure. The task survives ctx cancellation.
func (s *Session) DispatchReply(ctx context.Context) *Pending {
	if !s.begin() {
		return resolved(nil, domain.ErrSessionClosed)
	}

	s.mu.Lock()
	payload := BuildPayload(s.messages, s.liked)
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	p := newPending()
	go func() {
		defer s.wg.Done()
		msg := s.reply(ctx, payload)
		p.resolve(&msg, nil)
	}()
	return p
}

// RequestReply is the blocking form of DispatchReply. It never fails: errors of the
// collaborator degrade into the fallback message.
func (s *Session) RequestReply(ctx context.Context) (domain.Message, error) {
	msg, err := s.DispatchReply(ctx).Wait(context.WithoutCancel(ctx))
	if err != nil {
		return domain.Message{}, err
	}
	return *msg, nil
}

func (s *Session) reply(ctx context.Context, payload []domain.Turn) domain.Message {
	started := time.Now()

	content, err := s.callReplier(ctx, payload)
	fallback := err != nil
	if fallback {
		s.logger.Error("failed to get reply", "session_id", s.id, "err", err)
		content = domain.FallbackReply
	}
	elapsed := time.Since(started)

	s.mu.Lock()
	msg, ev := s.appendLocked(ctx, domain.RoleAssistant, content, domain.KindText, "")
	s.persistMessages(ctx)
	s.inflight--
	s.mu.Unlock()

	events := []func(){ev}
	if hook := s.hooks.OnReply; hook != nil {
		rev := &domain.ReplyEvent{
			EventBase: s.base(domain.EventReply),
			Duration:  elapsed,
			Fallback:  fallback,
			Err:       err,
		}
		events = append(events, func() { hook(ctx, rev) })
	}
	fire(events)
	return msg
}

func (s *Session) callReplier(ctx context.Context, payload []domain.Turn) (string, error) {
	if s.replier == nil {
		return "", errNoReplier
	}
	turn, err := s.replier.Reply(ctx, payload, s.replyOpts...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(turn.Content) == "" {
		return "", errEmptyReply
	}
	return turn.Content, nil
}
