package runtime

import (
	"context"
	"time"

	"github.com/aretw0/stylist/pkg/domain"
)

// Advance schedules a transition to the next step after the configured delay.
//
// No precondition is enforced here; presentation layers gate it. Overlapping calls
// each schedule their own transition. The step saturates at StepFinalRequest, in which
// case no message is appended. ctx cancellation does not stop the transition.
func (s *Session) Advance(ctx context.Context) *Pending {
	if !s.begin() {
		return resolved(nil, domain.ErrSessionClosed)
	}

	ctx = context.WithoutCancel(ctx)
	p := newPending()
	go func() {
		defer s.wg.Done()
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		p.resolve(s.completeAdvance(ctx), nil)
	}()
	return p
}

func (s *Session) completeAdvance(ctx context.Context) *domain.Message {
	var events []func()
	var out *domain.Message

	s.mu.Lock()
	from := s.step
	to := from.Next()
	if to != from {
		s.step = to
		if hook := s.hooks.OnStepEnter; hook != nil {
			ev := &domain.StepEvent{EventBase: s.base(domain.EventStepEnter), From: from, To: to}
			events = append(events, func() { hook(ctx, ev) })
		}
		if text, ok := to.Script(); ok {
			msg, ev := s.appendLocked(ctx, domain.RoleAssistant, text, domain.KindText, "")
			out = &msg
			events = append(events, ev)
		}
		s.persistStep(ctx)
		s.persistMessages(ctx)
	}
	s.inflight--
	s.mu.Unlock()

	if to != from {
		s.logger.Info("step advanced", "session_id", s.id, "from", from.String(), "step", to.String())
	} else {
		s.logger.Debug("advance at terminal step ignored", "session_id", s.id, "step", to.String())
	}
	fire(events)
	return out
}
