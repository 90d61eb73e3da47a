package stylist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/stylist"
	"github.com/aretw0/stylist/internal/testutils"
	"github.com/aretw0/stylist/pkg/adapters/memory"
	"github.com/aretw0/stylist/pkg/adapters/mockai"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...stylist.Option) *stylist.Engine {
	t.Helper()
	base := []stylist.Option{
		stylist.WithAdvanceDelay(0),
		stylist.WithReplier(mockai.New(mockai.WithDelay(0))),
	}
	eng := stylist.New(append(base, opts...)...)
	t.Cleanup(func() { _ = eng.Close(context.Background()) })
	return eng
}

func TestFlow_HappyPath(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	land := testutils.Lander(t)
	sess, err := eng.Open(ctx, "alice")
	require.NoError(t, err)

	msg := land(sess.Start(ctx))
	assert.Equal(t, domain.ScriptPhoto, msg.Content)

	msg = land(sess.Capture(ctx, "data:image/jpeg;base64,AAAA"))
	assert.Equal(t, domain.ScriptLifestyle, msg.Content)

	msg = land(sess.Recording(ctx, []byte("ignored")))
	assert.Equal(t, domain.ScriptOutfitPreferences, msg.Content)

	_, err = sess.ToggleLike(ctx, 2)
	require.NoError(t, err)
	_, err = sess.ToggleLike(ctx, 5)
	require.NoError(t, err)

	msg = land(sess.Continue(ctx))
	assert.Equal(t, domain.ScriptFinalRequest, msg.Content)

	msg = land(sess.Submit(ctx, "What should I wear to a wedding?"))
	assert.Equal(t, mockai.ReplyLifestyle, msg.Content)

	snap := sess.Snapshot()
	assert.Equal(t, domain.StepFinalRequest, snap.Step)
	assert.Equal(t, "final_request", snap.StepName)
	assert.False(t, snap.Processing)
	assert.Equal(t, []domain.OutfitID{2, 5}, snap.Liked)

	kinds := make([]domain.Kind, 0, len(snap.Messages))
	for _, m := range snap.Messages {
		kinds = append(kinds, m.Kind)
	}
	assert.Equal(t, []domain.Kind{
		domain.KindText, domain.KindText,
		domain.KindText,
		domain.KindImage, domain.KindText,
		domain.KindVoice, domain.KindText,
		domain.KindText,
		domain.KindText, domain.KindText,
	}, kinds)
	assert.Equal(t, domain.LifestyleTranscript, snap.Messages[5].Content)
}

func TestFlow_Gating(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	land := testutils.Lander(t)
	sess, err := eng.Open(ctx, "gates")
	require.NoError(t, err)

	_, err = sess.Capture(ctx, "data:x")
	assert.ErrorIs(t, err, domain.ErrStepMismatch)
	_, err = sess.Recording(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrStepMismatch)
	_, err = sess.Continue(ctx)
	assert.ErrorIs(t, err, domain.ErrStepMismatch)
	_, err = sess.Submit(ctx, "hello")
	assert.ErrorIs(t, err, domain.ErrStepMismatch)

	land(sess.Start(ctx))
	_, err = sess.Start(ctx)
	assert.ErrorIs(t, err, domain.ErrStepMismatch)

	_, err = sess.Capture(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyCapture)

	land(sess.Capture(ctx, "data:x"))
	land(sess.Recording(ctx, nil))

	_, err = sess.Continue(ctx)
	assert.ErrorIs(t, err, domain.ErrNoLikedOutfits)

	_, _ = sess.ToggleLike(ctx, 1)
	land(sess.Continue(ctx))

	_, err = sess.Submit(ctx, "  \t ")
	assert.ErrorIs(t, err, domain.ErrEmptyRequest)
	assert.Len(t, sess.Messages(), 8, "a rejected request appends nothing")
}

func TestFlow_BusyWhileProcessing(t *testing.T) {
	eng := newEngine(t, stylist.WithAdvanceDelay(100*time.Millisecond))
	ctx := context.Background()
	land := testutils.Lander(t)
	sess, err := eng.Open(ctx, "busy")
	require.NoError(t, err)

	p, err := sess.Start(ctx)
	require.NoError(t, err)
	assert.True(t, sess.Processing())

	_, err = sess.Start(ctx)
	assert.ErrorIs(t, err, domain.ErrBusy)

	land(p, nil)
	assert.Equal(t, domain.StepPhoto, sess.Step())
}

func TestFlow_DoubleCaptureDoesNotSkipLifestyle(t *testing.T) {
	eng := newEngine(t, stylist.WithAdvanceDelay(100*time.Millisecond))
	ctx := context.Background()
	land := testutils.Lander(t)
	sess, err := eng.Open(ctx, "double-capture")
	require.NoError(t, err)

	land(sess.Start(ctx))

	p, err := sess.Capture(ctx, "data:image/png;base64,AAAA")
	require.NoError(t, err)

	_, err = sess.Capture(ctx, "data:image/png;base64,BBBB")
	assert.ErrorIs(t, err, domain.ErrBusy)

	land(p, nil)
	assert.Equal(t, domain.StepLifestyle, sess.Step())

	images := 0
	for _, m := range sess.Messages() {
		if m.Kind == domain.KindImage {
			images++
		}
	}
	assert.Equal(t, 1, images)

	p, err = sess.Recording(ctx, nil)
	require.NoError(t, err)
	_, err = sess.Recording(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrBusy)

	land(p, nil)
	assert.Equal(t, domain.StepOutfitPreferences, sess.Step())
}

func TestFlow_ReplierFailureFallsBack(t *testing.T) {
	failing := ports.ReplierFunc(func(context.Context, []domain.Turn, ...ports.ReplyOption) (domain.Turn, error) {
		return domain.Turn{}, errors.New("quota exceeded")
	})
	eng := newEngine(t, stylist.WithReplier(failing))
	ctx := context.Background()
	land := testutils.Lander(t)
	sess, err := eng.Open(ctx, "fallback")
	require.NoError(t, err)

	land(sess.Start(ctx))
	land(sess.Capture(ctx, "data:x"))
	land(sess.Recording(ctx, nil))
	_, _ = sess.ToggleLike(ctx, 3)
	land(sess.Continue(ctx))

	msg := land(sess.Submit(ctx, "help"))
	assert.Equal(t, domain.FallbackReply, msg.Content)
}

func TestFlow_TranscriberError(t *testing.T) {
	boom := errors.New("mic unplugged")
	eng := newEngine(t, stylist.WithTranscriber(ports.TranscriberFunc(func(context.Context, []byte) (string, error) {
		return "", boom
	})))
	ctx := context.Background()
	land := testutils.Lander(t)
	sess, err := eng.Open(ctx, "mic")
	require.NoError(t, err)
	land(sess.Start(ctx))
	land(sess.Capture(ctx, "data:x"))

	_, err = sess.Recording(ctx, []byte("..."))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.StepLifestyle, sess.Step())
}

func TestEngine_ResumeFromStore(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	land := testutils.Lander(t)

	first := newEngine(t, stylist.WithStore(store))
	sess, err := first.Open(ctx, "resume")
	require.NoError(t, err)
	land(sess.Start(ctx))
	_, _ = sess.ToggleLike(ctx, 4)
	require.NoError(t, first.Close(ctx))

	second := newEngine(t, stylist.WithStore(store))
	again, err := second.Open(ctx, "resume")
	require.NoError(t, err)

	assert.Equal(t, domain.StepPhoto, again.Step())
	assert.Equal(t, []domain.OutfitID{4}, again.Liked())
	assert.Len(t, again.Messages(), 3)

	ids, err := second.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"resume"}, ids)

	require.NoError(t, second.Delete(ctx, "resume"))
	ids, err = second.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEngine_SameSessionIsShared(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	a, err := eng.Open(ctx, "shared")
	require.NoError(t, err)
	b, err := eng.Open(ctx, "shared")
	require.NoError(t, err)

	_, _ = a.ToggleLike(ctx, 6)
	assert.True(t, b.IsLiked(6))
}

func TestEngine_Hooks(t *testing.T) {
	var steps []domain.Step
	eng := newEngine(t, stylist.WithLifecycleHooks(domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) { steps = append(steps, e.To) },
	}))
	ctx := context.Background()
	land := testutils.Lander(t)
	sess, err := eng.Open(ctx, "hooks")
	require.NoError(t, err)

	land(sess.Start(ctx))
	assert.Equal(t, []domain.Step{domain.StepPhoto}, steps)
}

func TestEngine_RejectsInvalidSessionID(t *testing.T) {
	eng := newEngine(t)
	_, err := eng.Open(context.Background(), "../escape")
	assert.ErrorIs(t, err, domain.ErrInvalidSessionID)
}
