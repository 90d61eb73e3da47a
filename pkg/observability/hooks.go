package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/stylist/pkg/domain"
)

// Chain combines hook sets. Each callback runs the non-nil callbacks of every set, in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks

	var steps []func(context.Context, *domain.StepEvent)
	var msgs []func(context.Context, *domain.MessageEvent)
	var likes []func(context.Context, *domain.LikeEvent)
	var replies []func(context.Context, *domain.ReplyEvent)
	for _, h := range sets {
		if h.OnStepEnter != nil {
			steps = append(steps, h.OnStepEnter)
		}
		if h.OnMessageAppend != nil {
			msgs = append(msgs, h.OnMessageAppend)
		}
		if h.OnLikeToggle != nil {
			likes = append(likes, h.OnLikeToggle)
		}
		if h.OnReply != nil {
			replies = append(replies, h.OnReply)
		}
	}

	if len(steps) > 0 {
		out.OnStepEnter = func(ctx context.Context, e *domain.StepEvent) {
			for _, fn := range steps {
				fn(ctx, e)
			}
		}
	}
	if len(msgs) > 0 {
		out.OnMessageAppend = func(ctx context.Context, e *domain.MessageEvent) {
			for _, fn := range msgs {
				fn(ctx, e)
			}
		}
	}
	if len(likes) > 0 {
		out.OnLikeToggle = func(ctx context.Context, e *domain.LikeEvent) {
			for _, fn := range likes {
				fn(ctx, e)
			}
		}
	}
	if len(replies) > 0 {
		out.OnReply = func(ctx context.Context, e *domain.ReplyEvent) {
			for _, fn := range replies {
				fn(ctx, e)
			}
		}
	}
	return out
}

// LogHooks writes one structured line per lifecycle event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_enter",
				"session_id", e.SessionID,
				"from", e.From.String(),
				"step", e.To.String(),
			)
		},
		OnMessageAppend: func(ctx context.Context, e *domain.MessageEvent) {
			logger.DebugContext(ctx, "message_append",
				"session_id", e.SessionID,
				"message_id", e.Message.ID,
				"role", e.Message.Role,
				"kind", e.Message.Kind,
			)
		},
		OnLikeToggle: func(ctx context.Context, e *domain.LikeEvent) {
			logger.DebugContext(ctx, "like_toggle",
				"session_id", e.SessionID,
				"outfit_id", int(e.OutfitID),
				"liked", e.Liked,
			)
		},
		OnReply: func(ctx context.Context, e *domain.ReplyEvent) {
			attrs := []any{
				"session_id", e.SessionID,
				"duration", e.Duration,
				"fallback", e.Fallback,
			}
			if e.Err != nil {
				logger.WarnContext(ctx, "reply", append(attrs, "err", e.Err)...)
				return
			}
			logger.InfoContext(ctx, "reply", attrs...)
		},
	}
}
