package mockai_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stylist/pkg/adapters/mockai"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplier_Branches(t *testing.T) {
	r := mockai.New(mockai.WithDelay(0))

	tests := []struct {
		name  string
		turns []domain.Turn
		want  string
	}{
		{
			name:  "last turn from user",
			turns: []domain.Turn{{Role: domain.RoleUser, Content: "help"}},
			want:  mockai.ReplyLifestyle,
		},
		{
			name:  "last turn mentions lifestyle",
			turns: []domain.Turn{{Role: domain.RoleAssistant, Content: "tell me about your lifestyle"}},
			want:  mockai.ReplyLifestyle,
		},
		{
			name: "earlier turn mentions outfits",
			turns: []domain.Turn{
				{Role: domain.RoleUser, Content: "show me outfits"},
				{Role: domain.RoleAssistant, Content: "sure"},
			},
			want: mockai.ReplyOutfits,
		},
		{
			name:  "anything else",
			turns: []domain.Turn{{Role: domain.RoleAssistant, Content: "hello"}},
			want:  mockai.ReplyDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Reply(context.Background(), tt.turns)
			require.NoError(t, err)
			assert.Equal(t, domain.RoleAssistant, got.Role)
			assert.Equal(t, tt.want, got.Content)
		})
	}
}

func TestReplier_EmptyConversation(t *testing.T) {
	_, err := mockai.New(mockai.WithDelay(0)).Reply(context.Background(), nil)
	assert.ErrorIs(t, err, mockai.ErrEmptyConversation)
}

func TestReplier_DelayHonoursContext(t *testing.T) {
	r := mockai.New(mockai.WithDelay(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := r.Reply(ctx, []domain.Turn{{Role: domain.RoleUser, Content: "x"}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTranscriber(t *testing.T) {
	text, err := mockai.Transcriber{}.Transcribe(context.Background(), []byte("audio"))
	require.NoError(t, err)
	assert.Equal(t, domain.LifestyleTranscript, text)
}
