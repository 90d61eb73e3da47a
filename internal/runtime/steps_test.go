package runtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/stylist/internal/runtime"
	"github.com/aretw0/stylist/pkg/adapters/memory"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance_WalksEveryStep(t *testing.T) {
	s := openSession(t, memory.NewStore())

	expected := []struct {
		step   domain.Step
		script string
	}{
		{domain.StepPhoto, domain.ScriptPhoto},
		{domain.StepLifestyle, domain.ScriptLifestyle},
		{domain.StepOutfitPreferences, domain.ScriptOutfitPreferences},
		{domain.StepFinalRequest, domain.ScriptFinalRequest},
	}

	for _, tc := range expected {
		before := len(s.Messages())
		msg := advance(t, s)

		require.NotNil(t, msg)
		assert.Equal(t, tc.step, s.Step())
		assert.Equal(t, tc.script, msg.Content)
		assert.Equal(t, domain.RoleAssistant, msg.Role)
		assert.Len(t, s.Messages(), before+1, "exactly one scripted message per transition")
	}
}

// The step saturates at FinalRequest instead of running past the last stage.
func TestAdvance_SaturatesAtFinalRequest(t *testing.T) {
	s := openSession(t, memory.NewStore())
	for range 4 {
		advance(t, s)
	}
	before := s.Messages()

	msg := advance(t, s)

	assert.Nil(t, msg)
	assert.Equal(t, domain.StepFinalRequest, s.Step())
	assert.Equal(t, before, s.Messages())
	assert.False(t, s.Processing())
}

func TestAdvance_ProcessingDuringDelay(t *testing.T) {
	s := openSession(t, memory.NewStore(), runtime.WithAdvanceDelay(50*time.Millisecond))

	p := s.Advance(context.Background())
	assert.True(t, s.Processing())
	assert.Equal(t, domain.StepWelcome, s.Step(), "the transition lands after the delay")

	_, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, s.Processing())
	assert.Equal(t, domain.StepPhoto, s.Step())
}

func TestAdvance_SurvivesCallerCancellation(t *testing.T) {
	s := openSession(t, memory.NewStore(), runtime.WithAdvanceDelay(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	p := s.Advance(ctx)
	cancel()

	<-p.Done()
	assert.Equal(t, domain.StepPhoto, s.Step())
}

func TestPending_WaitHonoursContext(t *testing.T) {
	s := openSession(t, memory.NewStore(), runtime.WithAdvanceDelay(200*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Advance(context.Background()).Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAdvance_OverlappingCallsEachLand(t *testing.T) {
	s := openSession(t, memory.NewStore(), runtime.WithAdvanceDelay(10*time.Millisecond))

	var wg sync.WaitGroup
	for range 2 {
		p := s.Advance(context.Background())
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-p.Done()
		}()
	}
	wg.Wait()

	assert.Equal(t, domain.StepLifestyle, s.Step())
	assert.Len(t, s.Messages(), 4)
}

func TestAdvance_Hooks(t *testing.T) {
	var mu sync.Mutex
	var steps []domain.StepEvent
	var appended []domain.Message

	hooks := domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			mu.Lock()
			defer mu.Unlock()
			steps = append(steps, *e)
		},
		OnMessageAppend: func(_ context.Context, e *domain.MessageEvent) {
			mu.Lock()
			defer mu.Unlock()
			appended = append(appended, e.Message)
		},
	}

	s := openSession(t, memory.NewStore(), runtime.WithLifecycleHooks(hooks))
	advance(t, s)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, steps, 1)
	assert.Equal(t, domain.StepWelcome, steps[0].From)
	assert.Equal(t, domain.StepPhoto, steps[0].To)
	assert.Equal(t, "test", steps[0].SessionID)
	assert.Equal(t, domain.EventStepEnter, steps[0].Type)

	// Two seed messages, then the scripted one.
	require.Len(t, appended, 3)
	assert.Equal(t, domain.ScriptPhoto, appended[2].Content)
}

func TestAdvance_PersistsStep(t *testing.T) {
	store := memory.NewStore()
	s := openSession(t, store)
	advance(t, s)

	raw, err := store.Get(context.Background(), runtime.SlotKey("test", runtime.SlotStep))
	require.NoError(t, err)
	assert.Equal(t, "1", string(raw))
}
