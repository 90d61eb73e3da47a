// Package eino adapts eino chat models to the Replier port.
package eino

import (
	"context"
	"fmt"

	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Replier forwards the conversation to an eino chat model.
type Replier struct {
	model model.BaseChatModel
}

var _ ports.Replier = (*Replier)(nil)

// New wraps any eino chat model.
func New(m model.BaseChatModel) *Replier {
	return &Replier{model: m}
}

// ArkConfig holds the settings of a Volcengine Ark chat model.
type ArkConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Region  string
}

// NewArkReplier builds a Replier backed by an Ark chat model.
func NewArkReplier(ctx context.Context, cfg ArkConfig) (*Replier, error) {
	cm, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Region:  cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ark chat model: %w", err)
	}
	return New(cm), nil
}

// Reply sends the turns as a single Generate call. No retry is attempted.
func (r *Replier) Reply(ctx context.Context, turns []domain.Turn, opts ...ports.ReplyOption) (domain.Turn, error) {
	var callOpts []model.Option
	if o := ports.ApplyReplyOptions(opts...); o.Model != "" {
		callOpts = append(callOpts, model.WithModel(o.Model))
	}

	out, err := r.model.Generate(ctx, toSchema(turns), callOpts...)
	if err != nil {
		return domain.Turn{}, fmt.Errorf("chat model generate: %w", err)
	}
	if out == nil {
		return domain.Turn{}, fmt.Errorf("chat model returned no message")
	}
	return domain.Turn{Role: domain.RoleAssistant, Content: out.Content}, nil
}

func toSchema(turns []domain.Turn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case domain.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(t.Content, nil))
		case domain.RoleSystem:
			msgs = append(msgs, schema.SystemMessage(t.Content))
		default:
			msgs = append(msgs, schema.UserMessage(t.Content))
		}
	}
	return msgs
}
