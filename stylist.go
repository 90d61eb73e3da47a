package stylist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/stylist/internal/logging"
	"github.com/aretw0/stylist/internal/runtime"
	"github.com/aretw0/stylist/pkg/adapters/memory"
	"github.com/aretw0/stylist/pkg/adapters/mockai"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
	"github.com/aretw0/stylist/pkg/session"
)

// Version is the library release.
const Version = "0.4.0"

// Pending tracks work issued to a session (a step transition or an AI reply).
type Pending = runtime.Pending

// Engine is the high-level entry point of the library.
// It owns the live sessions and the collaborators they share.
type Engine struct {
	manager     *session.Manager
	store       ports.KVStore
	replier     ports.Replier
	transcriber ports.Transcriber
	locker      ports.DistributedLocker
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	sessionOpts []runtime.Option
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the persistence backend. Defaults to an in-memory store.
func WithStore(store ports.KVStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithReplier sets the AI collaborator. Defaults to the canned mock replier.
func WithReplier(r ports.Replier) Option {
	return func(e *Engine) {
		e.replier = r
	}
}

// WithTranscriber sets the voice note transcriber. Defaults to the scripted stub.
func WithTranscriber(t ports.Transcriber) Option {
	return func(e *Engine) {
		e.transcriber = t
	}
}

// WithLocker enables distributed locking while sessions are opened.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAdvanceDelay sets the pause before a step transition lands (default 1s).
func WithAdvanceDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, runtime.WithAdvanceDelay(d))
	}
}

// WithModel selects the model name forwarded to the AI collaborator.
func WithModel(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.sessionOpts = append(e.sessionOpts, runtime.WithModel(name))
		}
	}
}

// WithClock sets the time source used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, runtime.WithClock(now))
	}
}

// WithIDGenerator sets the message ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, runtime.WithIDGenerator(gen))
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.replier == nil {
		eng.replier = mockai.New()
	}
	if eng.transcriber == nil {
		eng.transcriber = mockai.Transcriber{}
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	sessionOpts := append([]runtime.Option{
		runtime.WithReplier(eng.replier),
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	}, eng.sessionOpts...)

	managerOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithSessionOptions(sessionOpts...),
	}
	if eng.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(eng.locker))
	}
	eng.manager = session.NewManager(eng.store, managerOpts...)
	return eng
}

// Open returns the session with the given ID, restoring it from the store or
// seeding a new conversation.
func (e *Engine) Open(ctx context.Context, sessionID string) (*Session, error) {
	if !domain.ValidSessionID(sessionID) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSessionID, sessionID)
	}
	rt, err := e.manager.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Session{rt: rt, transcriber: e.transcriber}, nil
}

// Sessions lists the IDs of every persisted session.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.manager.List(ctx)
}

// CloseSession waits for the session's pending work and releases it. Its state stays persisted.
func (e *Engine) CloseSession(ctx context.Context, sessionID string) error {
	return e.manager.Close(ctx, sessionID)
}

// Delete removes a session and everything it persisted.
func (e *Engine) Delete(ctx context.Context, sessionID string) error {
	if !domain.ValidSessionID(sessionID) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSessionID, sessionID)
	}
	return e.manager.Delete(ctx, sessionID)
}

// Close waits for the pending work of every open session.
func (e *Engine) Close(ctx context.Context) error {
	return e.manager.Shutdown(ctx)
}

// Store returns the persistence backend.
func (e *Engine) Store() ports.KVStore {
	return e.store
}

// Catalog returns the outfits offered at the preferences step.
func (e *Engine) Catalog() []domain.Outfit {
	return domain.Catalog()
}
