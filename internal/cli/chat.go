package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/stylist/internal/presentation/tui"
	"github.com/aretw0/stylist/pkg/runner"
	"golang.org/x/term"
)

// ChatOptions contains all the configuration for the chat command.
type ChatOptions struct {
	SessionID string
	Fresh     bool
	Headless  bool

	// In and Out default to Stdin and Stdout.
	In  io.Reader
	Out io.Writer
}

// RunChat drives one session interactively until exit, EOF or interrupt.
func RunChat(ctx context.Context, rt *Runtime, opts ChatOptions) error {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	headless := opts.Headless || !IsTerminal(out)

	if opts.Fresh {
		if err := rt.Engine.Delete(ctx, opts.SessionID); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}

	sess, err := rt.Engine.Open(ctx, opts.SessionID)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	renderer := runner.ContentRenderer(tui.PlainRenderer)
	if !headless {
		tui.PrintBanner(out)
		renderer = tui.NewRenderer()
	}

	r := runner.NewRunner(
		runner.WithIO(in, out),
		runner.WithHeadless(headless),
		runner.WithRenderer(renderer),
		runner.WithLogger(rt.Logger),
	)
	if err := r.Run(ctx, sess); err != nil {
		return err
	}

	rt.Logger.Info("Session saved", "session_id", sess.ID(), "step", sess.Step().String())
	if !headless {
		printSystemMessage(out, "Session '%s' saved at step '%s'.", sess.ID(), sess.Step())
	}
	return nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
