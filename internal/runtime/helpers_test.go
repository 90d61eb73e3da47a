package runtime_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/stylist/internal/runtime"
	"github.com/aretw0/stylist/pkg/adapters/memory"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
	"github.com/stretchr/testify/require"
)

// sequentialIDs yields msg-1, msg-2, ...
func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("msg-%d", n.Add(1))
	}
}

// fixedClock returns a clock that advances one second per reading.
func fixedClock() func() time.Time {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var n atomic.Int64
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Second)
	}
}

func openSession(t *testing.T, store ports.KVStore, opts ...runtime.Option) *runtime.Session {
	t.Helper()
	base := []runtime.Option{
		runtime.WithAdvanceDelay(0),
		runtime.WithIDGenerator(sequentialIDs()),
	}
	s := runtime.Open(context.Background(), store, "test", append(base, opts...)...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func advance(t *testing.T, s *runtime.Session) *domain.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	msg, err := s.Advance(context.Background()).Wait(ctx)
	require.NoError(t, err)
	return msg
}

// failingStore reads like an empty store and rejects every write.
type failingStore struct {
	*memory.Store
	writes atomic.Int64
}

func newFailingStore() *failingStore {
	return &failingStore{Store: memory.NewStore()}
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	f.writes.Add(1)
	return errors.New("disk full")
}
