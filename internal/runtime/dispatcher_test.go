package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/stylist/internal/runtime"
	"github.com/aretw0/stylist/pkg/adapters/memory"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReplier struct {
	mock.Mock
}

func (m *mockReplier) Reply(ctx context.Context, turns []domain.Turn, opts ...ports.ReplyOption) (domain.Turn, error) {
	args := m.Called(turns, ports.ApplyReplyOptions(opts...))
	return args.Get(0).(domain.Turn), args.Error(1)
}

func TestBuildPayload(t *testing.T) {
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: "sys"},
		{Role: domain.RoleAssistant, Content: "hi"},
		{Role: domain.RoleUser, Content: domain.ImageCaption, Kind: domain.KindImage, ImageRef: "data:x"},
		{Role: domain.RoleUser, Content: "I like hiking", Kind: domain.KindVoice},
	}

	turns := runtime.BuildPayload(messages, []domain.OutfitID{2, 5})

	assert.Equal(t, []domain.Turn{
		{Role: domain.RoleAssistant, Content: "hi"},
		{Role: domain.RoleUser, Content: "[User uploaded an image]Uploaded a photo"},
		{Role: domain.RoleUser, Content: "I like hiking"},
		{Role: domain.RoleUser, Content: "I liked outfits with IDs: 2, 5"},
	}, turns)
}

func TestBuildPayload_NoLikes(t *testing.T) {
	turns := runtime.BuildPayload([]domain.Message{{Role: domain.RoleUser, Content: "x"}}, nil)
	assert.Equal(t, []domain.Turn{{Role: domain.RoleUser, Content: "x"}}, turns)
}

func TestRequestReply_AppendsReply(t *testing.T) {
	replier := new(mockReplier)
	replier.On("Reply", mock.Anything, ports.ReplyOptions{Model: "gpt-4o"}).
		Return(domain.Turn{Role: domain.RoleAssistant, Content: "  Try a blazer.  "}, nil).Once()

	var replies []domain.ReplyEvent
	s := openSession(t, memory.NewStore(),
		runtime.WithReplier(replier),
		runtime.WithModel("gpt-4o"),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnReply: func(_ context.Context, e *domain.ReplyEvent) { replies = append(replies, *e) },
		}),
	)
	ctx := context.Background()
	_, _ = s.ToggleLike(ctx, 2)
	_, err := s.AppendText(ctx, domain.RoleUser, "What should I wear?", domain.KindText)
	require.NoError(t, err)

	msg, err := s.RequestReply(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, "  Try a blazer.  ", msg.Content, "reply content is kept verbatim")
	assert.Equal(t, msg, s.Messages()[len(s.Messages())-1])
	assert.False(t, s.Processing())

	replier.AssertExpectations(t)
	turns := replier.Calls[0].Arguments.Get(0).([]domain.Turn)
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Content: "What should I wear?"}, turns[len(turns)-2])
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Content: "I liked outfits with IDs: 2"}, turns[len(turns)-1])

	require.Len(t, replies, 1)
	assert.False(t, replies[0].Fallback)
}

func TestRequestReply_Fallbacks(t *testing.T) {
	cases := []struct {
		name    string
		replier ports.Replier
	}{
		{
			name: "error",
			replier: ports.ReplierFunc(func(context.Context, []domain.Turn, ...ports.ReplyOption) (domain.Turn, error) {
				return domain.Turn{}, errors.New("network down")
			}),
		},
		{
			name: "empty content",
			replier: ports.ReplierFunc(func(context.Context, []domain.Turn, ...ports.ReplyOption) (domain.Turn, error) {
				return domain.Turn{Role: domain.RoleAssistant, Content: " \n "}, nil
			}),
		},
		{
			name:    "no replier",
			replier: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var events []domain.ReplyEvent
			s := openSession(t, memory.NewStore(),
				runtime.WithReplier(tc.replier),
				runtime.WithLifecycleHooks(domain.LifecycleHooks{
					OnReply: func(_ context.Context, e *domain.ReplyEvent) { events = append(events, *e) },
				}),
			)

			msg, err := s.RequestReply(context.Background())
			require.NoError(t, err, "collaborator failures never surface")
			assert.Equal(t, domain.FallbackReply, msg.Content)
			assert.Equal(t, domain.RoleAssistant, msg.Role)
			assert.Len(t, s.Messages(), 3)

			require.Len(t, events, 1)
			assert.True(t, events[0].Fallback)
			assert.Error(t, events[0].Err)
		})
	}
}

func TestDispatchReply_ProcessingWhileAwaiting(t *testing.T) {
	release := make(chan struct{})
	replier := ports.ReplierFunc(func(ctx context.Context, _ []domain.Turn, _ ...ports.ReplyOption) (domain.Turn, error) {
		<-release
		return domain.Turn{Role: domain.RoleAssistant, Content: "done"}, nil
	})
	s := openSession(t, memory.NewStore(), runtime.WithReplier(replier))

	p := s.DispatchReply(context.Background())
	assert.True(t, s.Processing())

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	msg, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "done", msg.Content)
	assert.False(t, s.Processing())
}

func TestDispatchReply_IgnoresCallerCancellation(t *testing.T) {
	replier := ports.ReplierFunc(func(ctx context.Context, _ []domain.Turn, _ ...ports.ReplyOption) (domain.Turn, error) {
		time.Sleep(10 * time.Millisecond)
		if err := ctx.Err(); err != nil {
			return domain.Turn{}, err
		}
		return domain.Turn{Role: domain.RoleAssistant, Content: "still here"}, nil
	})
	s := openSession(t, memory.NewStore(), runtime.WithReplier(replier))

	ctx, cancel := context.WithCancel(context.Background())
	p := s.DispatchReply(ctx)
	cancel()

	<-p.Done()
	msgs := s.Messages()
	assert.Equal(t, "still here", msgs[len(msgs)-1].Content)
}
