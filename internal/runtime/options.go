package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
	"github.com/google/uuid"
)

// DefaultAdvanceDelay is the simulated "thinking" pause before a step transition lands.
const DefaultAdvanceDelay = time.Second

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the generator for message IDs. Defaults to UUIDv4.
func WithIDGenerator(gen func() string) Option {
	return func(s *Session) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithAdvanceDelay sets the pause between Advance and the step change.
func WithAdvanceDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithReplier sets the AI collaborator used by the dispatcher.
func WithReplier(r ports.Replier) Option {
	return func(s *Session) {
		s.replier = r
	}
}

// WithReplyOptions sets per-call options forwarded to the replier.
func WithReplyOptions(opts ...ports.ReplyOption) Option {
	return func(s *Session) {
		s.replyOpts = append(s.replyOpts, opts...)
	}
}

// WithModel is a shortcut for WithReplyOptions(ports.WithModel(name)).
func WithModel(name string) Option {
	return WithReplyOptions(ports.WithModel(name))
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

func defaultIDGenerator() string {
	return uuid.NewString()
}
