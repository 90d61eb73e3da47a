package testutils

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/stylist/internal/adapters/file"
	"github.com/aretw0/stylist/internal/runtime"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/stretchr/testify/require"
)

// WaitTimeout bounds how long a Lander waits for issued work.
const WaitTimeout = 5 * time.Second

// SetupTestStore creates a temporary directory and a file store rooted in it.
// It returns the absolute path to the temp dir and the store.
func SetupTestStore(t *testing.T) (string, *file.Store) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	return absPath, file.New(absPath)
}

// Lander returns a helper that fails the test if an operation was rejected,
// then waits for the issued work and returns the message it produced.
//
//	land := testutils.Lander(t)
//	msg := land(sess.Start(ctx))
func Lander(t *testing.T) func(*runtime.Pending, error) *domain.Message {
	return func(p *runtime.Pending, err error) *domain.Message {
		t.Helper()
		require.NoError(t, err, "operation rejected")

		ctx, cancel := context.WithTimeout(context.Background(), WaitTimeout)
		defer cancel()

		msg, err := p.Wait(ctx)
		require.NoError(t, err, "pending work did not land")
		return msg
	}
}
