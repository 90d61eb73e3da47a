package runtime

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/stylist/internal/logging"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
)

// Session is the conversation state of one guided flow: the step machine,
// the append-only log and the liked outfits.
//
// Every mutation happens under a single mutex. The two suspension points
// (the advance delay and the reply await) run on goroutines without it.
type Session struct {
	id        string
	store     ports.KVStore
	replier   ports.Replier
	replyOpts []ports.ReplyOption
	now       func() time.Time
	newID     func() string
	delay     time.Duration
	logger    *slog.Logger
	hooks     domain.LifecycleHooks

	mu       sync.Mutex
	step     domain.Step
	messages []domain.Message
	liked    []domain.OutfitID
	inflight int
	closed   bool

	wg sync.WaitGroup
}

// Open restores the session from the store, seeding the log if it is empty.
// It never fails on storage problems: unreadable slots fall back to their defaults.
func Open(ctx context.Context, store ports.KVStore, sessionID string, opts ...Option) *Session {
	s := &Session{
		id:     sessionID,
		store:  store,
		now:    time.Now,
		newID:  defaultIDGenerator,
		delay:  DefaultAdvanceDelay,
		logger: logging.NewNop(),
		step:   domain.StepWelcome,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load(ctx)

	var events []func()
	s.mu.Lock()
	if len(s.messages) == 0 {
		_, ev := s.appendLocked(ctx, domain.RoleSystem, domain.SeedSystemContent, domain.KindText, "")
		events = append(events, ev)
		_, ev = s.appendLocked(ctx, domain.RoleAssistant, domain.SeedAssistantContent, domain.KindText, "")
		events = append(events, ev)
		s.persistMessages(ctx)
		s.logger.Debug("seeded conversation", "session_id", s.id)
	}
	s.mu.Unlock()
	fire(events)

	s.logger.Info("session opened", "session_id", s.id, "step", s.step.String(), "messages", len(s.messages))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Step returns the current step.
func (s *Session) Step() domain.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Processing reports whether an advance or a reply is in flight.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Messages returns a copy of the conversation log.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Snapshot returns a consistent copy of the whole session.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{
		SessionID:  s.id,
		Step:       s.step,
		StepName:   s.step.String(),
		Processing: s.inflight > 0,
		Messages:   slices.Clone(s.messages),
		Liked:      s.likedCopy(),
	}
}

// Close stops accepting new work and waits for in-flight tasks to land.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Debug("session closed", "session_id", s.id)
	return nil
}

// begin registers an in-flight task. It fails once the session is closed.
func (s *Session) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.inflight++
	s.wg.Add(1)
	return true
}

func (s *Session) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: s.now(), Type: t, SessionID: s.id}
}

// fire runs deferred hook invocations. Callers must not hold s.mu.
func fire(events []func()) {
	for _, ev := range events {
		if ev != nil {
			ev()
		}
	}
}
