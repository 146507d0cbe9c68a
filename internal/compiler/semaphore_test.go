package compiler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSemaphore(t *testing.T) {
	t.Parallel()

	s := newSemaphore(0)
	require.Equal(t, 1, cap(s))

	ctx := context.Background()
	require.NoError(t, s.Acquire(ctx))

	waiting, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, s.Acquire(waiting), context.DeadlineExceeded)

	s.Release()
	require.NoError(t, s.Acquire(ctx))
	s.Release()

	done, stop := context.WithCancel(ctx)
	stop()
	require.ErrorIs(t, s.Acquire(done), context.Canceled)
	require.Empty(t, s)
}
