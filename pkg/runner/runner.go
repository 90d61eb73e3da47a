package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/stylist"
	"github.com/aretw0/stylist/internal/logging"
	"github.com/aretw0/stylist/internal/presentation/tui"
	"github.com/aretw0/stylist/pkg/domain"
)

// Runner drives one session from a line-oriented terminal.
type Runner struct {
	// Handler is the line IO. If nil, one is built from Input and Output.
	Handler *TextHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
	// Limits bounds style requests and recordings. Lines are bounded by the Handler.
	Limits Limits
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:    os.Stdin,
		Output:   os.Stdout,
		Logger:   logging.NewNop(),
		Renderer: tui.PlainRenderer,
		Limits:   LimitsFromEnv(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives the session until the user exits, input ends or ctx is cancelled.
// Resuming a persisted session prints the whole conversation first.
func (r *Runner) Run(ctx context.Context, sess *stylist.Session) error {
	handler := r.resolveHandler()

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	printed := 0
	for {
		printed = r.printNew(handler, sess, printed)
		step := sess.Step()
		if !r.Headless {
			r.hint(handler, sess, step)
		}

		line, err := handler.Input(signals.Context())
		if err != nil {
			signals.CheckRace()
			if errors.Is(err, io.EOF) || signals.Context().Err() != nil {
				r.Logger.Debug("Runner: input closed", "session_id", sess.ID(), "err", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		pending, err := r.act(signals.Context(), handler, sess, step, line)
		if err != nil {
			if isRejection(err) {
				handler.SystemOutput(err.Error())
				continue
			}
			return err
		}
		if pending == nil {
			continue
		}

		if step == domain.StepFinalRequest && !r.Headless {
			handler.SystemOutput("The stylist is thinking...")
		}
		if _, err := pending.Wait(signals.Context()); err != nil {
			r.Logger.Debug("Runner: interrupted while waiting", "session_id", sess.ID(), "err", err)
			return nil
		}
	}
}

// act maps one line to the operation the step accepts.
// A nil Pending with a nil error means nothing was issued.
func (r *Runner) act(ctx context.Context, h *TextHandler, sess *stylist.Session, step domain.Step, line string) (*stylist.Pending, error) {
	switch step {
	case domain.StepWelcome:
		return sess.Start(ctx)

	case domain.StepPhoto:
		ref, err := LoadImage(line)
		if err != nil {
			return nil, err
		}
		return sess.Capture(ctx, ref)

	case domain.StepLifestyle:
		var audio []byte
		if line != "" {
			data, err := r.Limits.ReadRecording(line)
			if err != nil {
				return nil, err
			}
			audio = data
		}
		return sess.Recording(ctx, audio)

	case domain.StepOutfitPreferences:
		switch strings.ToLower(line) {
		case "", "done", "continue":
			return sess.Continue(ctx)
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			h.SystemOutput("Type an outfit number to like or unlike it, or 'done' to continue.")
			return nil, nil
		}
		liked, err := sess.ToggleLike(ctx, domain.OutfitID(id))
		if err != nil {
			return nil, err
		}
		if liked {
			h.SystemOutput(fmt.Sprintf("Liked outfit %d.", id))
		} else {
			h.SystemOutput(fmt.Sprintf("Removed outfit %d from your likes.", id))
		}
		return nil, nil

	default:
		text, err := r.Limits.SanitizeRequest(line)
		if err != nil {
			return nil, err
		}
		return sess.Submit(ctx, text)
	}
}

func (r *Runner) hint(h *TextHandler, sess *stylist.Session, step domain.Step) {
	switch step {
	case domain.StepWelcome:
		h.SystemOutput("Press Enter to get started.")
	case domain.StepPhoto:
		h.SystemOutput("Enter the path of a photo (or an image URL).")
	case domain.StepLifestyle:
		h.SystemOutput("Press Enter to record, or give the path of a recording.")
	case domain.StepOutfitPreferences:
		h.Print(r.render(tui.FormatOutfits(domain.Catalog(), sess.IsLiked)))
		h.SystemOutput("Type an outfit number to like or unlike it, then 'done'.")
	}
}

// printNew prints log entries from index from on and returns the new length.
// System entries are context for the AI and are never shown.
func (r *Runner) printNew(h *TextHandler, sess *stylist.Session, from int) int {
	messages := sess.Messages()
	if from > len(messages) {
		from = 0
	}
	for _, m := range messages[from:] {
		if m.Role == domain.RoleSystem {
			continue
		}
		out, err := tui.FormatMessage(m, r.Renderer)
		if err != nil {
			r.Logger.Warn("Runner: render failed", "message_id", m.ID, "err", err)
			out = m.Content
		}
		h.Print(out)
	}
	return len(messages)
}

func (r *Runner) render(markdown string) string {
	out, err := r.Renderer(markdown)
	if err != nil {
		return markdown
	}
	return out
}

// resolveHandler ensures a valid TextHandler is set.
func (r *Runner) resolveHandler() *TextHandler {
	if r.Handler != nil {
		return r.Handler
	}
	if r.Renderer == nil {
		r.Renderer = tui.PlainRenderer
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	r.Handler = NewTextHandler(r.Input, r.Output)
	return r.Handler
}

// isRejection reports errors the user can recover from by typing something else.
func isRejection(err error) bool {
	var pathErr *os.PathError
	return errors.Is(err, domain.ErrStepMismatch) ||
		errors.Is(err, domain.ErrBusy) ||
		errors.Is(err, domain.ErrNoLikedOutfits) ||
		errors.Is(err, domain.ErrEmptyRequest) ||
		errors.Is(err, domain.ErrEmptyCapture) ||
		errors.Is(err, ErrNotAnImage) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrInvalidUTF8) ||
		errors.Is(err, ErrRecordingTooLarge) ||
		errors.As(err, &pathErr)
}
