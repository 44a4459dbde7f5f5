package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleInvalidSpec(t *testing.T) {
	s := New(nil)
	err := s.Schedule(context.Background(), "not a cron spec", func(ctx context.Context) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron spec")
}

func TestScheduleValidSpec(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Schedule(context.Background(), "0 9 * * *", func(ctx context.Context) {}))
	require.Len(t, s.Entries(), 1)
}

func TestRunFiresScheduledJob(t *testing.T) {
	s := New(nil)

	var fired atomic.Int32
	// robfig/cron standard specs have minute granularity; use @every for the test
	require.NoError(t, s.Schedule(context.Background(), "@every 100ms", func(ctx context.Context) {
		fired.Add(1)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 350*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, fired.Load(), int32(2))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
