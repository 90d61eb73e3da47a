package ports

import (
	"context"

	"github.com/aretw0/stylist/pkg/domain"
)

// Replier is the AI collaborator: it maps an ordered conversation to a single reply.
// Implementations must not retry; the caller decides how failures degrade.
type Replier interface {
	Reply(ctx context.Context, turns []domain.Turn, opts ...ReplyOption) (domain.Turn, error)
}

// ReplierFunc adapts a function to the Replier interface.
type ReplierFunc func(ctx context.Context, turns []domain.Turn, opts ...ReplyOption) (domain.Turn, error)

func (f ReplierFunc) Reply(ctx context.Context, turns []domain.Turn, opts ...ReplyOption) (domain.Turn, error) {
	return f(ctx, turns, opts...)
}

// ReplyOptions holds per-call settings for a Replier.
type ReplyOptions struct {
	Model string
}

// ReplyOption configures a single Reply call.
type ReplyOption func(*ReplyOptions)

// WithModel selects the model used for the reply. Empty means the collaborator default.
func WithModel(name string) ReplyOption {
	return func(o *ReplyOptions) {
		o.Model = name
	}
}

// ApplyReplyOptions folds opts into a ReplyOptions value.
func ApplyReplyOptions(opts ...ReplyOption) ReplyOptions {
	var o ReplyOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
