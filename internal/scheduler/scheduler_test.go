package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskWithRecover(t *testing.T) {
	s := New(time.Second)
	defer s.Stop()

	t.Run("panic is recovered", func(t *testing.T) {
		task := s.taskWithRecover(func(ctx context.Context) error {
			panic("boom")
		}, "panicking job")

		assert.NotPanics(t, func() { task(context.Background()) })
	})

	t.Run("each run gets rqID and deadline", func(t *testing.T) {
		var rqIDs []string
		task := s.taskWithRecover(func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			rqIDs = append(rqIDs, utils.GetRequestIDFromCtx(ctx))
			return errors.New("job error is only logged")
		}, "job")

		task(context.Background())
		task(context.Background())

		require.Len(t, rqIDs, 2)
		assert.NotEmpty(t, rqIDs[0])
		assert.NotEqual(t, rqIDs[0], rqIDs[1])
	})
}

func TestIntervalJobRuns(t *testing.T) {
	s := New(0)

	done := make(chan struct{}, 1)
	s.NewIntervalJob("test job", func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}, time.Hour, true)

	s.Start()
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not start immediately")
	}
}

func TestNewCrontabJob_InvalidCrontab(t *testing.T) {
	s := New(0)
	defer s.Stop()

	assert.Panics(t, func() {
		s.NewCrontabJob("bad", func(ctx context.Context) error { return nil }, "not a crontab", false)
	})
}
