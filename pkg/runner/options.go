package runner

import (
	"io"
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom TextHandler.
func WithInputHandler(handler *TextHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithIO reads lines from in and writes the transcript to out.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.Input = in
		r.Output = out
	}
}

// WithHeadless disables step hints and the outfit table, leaving only the transcript.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithRenderer configures the content renderer (e.g. TUI, Markdown).
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithLimits overrides the style request and recording limits.
func WithLimits(limits Limits) Option {
	return func(r *Runner) {
		r.Limits = limits
	}
}
