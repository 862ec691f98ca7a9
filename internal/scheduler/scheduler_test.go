package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type publisherStub struct {
	publishDueFn func(context.Context, time.Time) (int, error)
}

func (s *publisherStub) PublishDue(ctx context.Context, now time.Time) (int, error) {
	return s.publishDueFn(ctx, now)
}

func TestScheduler_Run(t *testing.T) {
	t.Run("Sweep Publishes Due Posts", func(t *testing.T) {
		calls := 0
		s := New(&publisherStub{
			publishDueFn: func(ctx context.Context, _ time.Time) (int, error) {
				calls++
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return 2, nil
			},
		})

		s.run()
		assert.Equal(t, 1, calls)
	})

	t.Run("Sweep Failure Does Not Panic", func(t *testing.T) {
		s := New(&publisherStub{
			publishDueFn: func(_ context.Context, _ time.Time) (int, error) {
				return 0, errors.New("db down")
			},
		})

		assert.NotPanics(t, s.run)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	done := make(chan struct{}, 1)
	s := New(&publisherStub{
		publishDueFn: func(_ context.Context, _ time.Time) (int, error) {
			select {
			case done <- struct{}{}:
			default:
			}
			return 0, nil
		},
	})

	assert.NoError(t, s.Start())
	defer s.Stop()

	// The startup sweep runs without waiting for the first tick.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("startup sweep never ran")
	}
}
