package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RegisterAndTasks(t *testing.T) {
	s := NewScheduler(time.Second)
	s.Register("publish-due", time.Minute, func(context.Context) error { return nil })
	s.Register("cleanup-sessions", time.Hour, func(context.Context) error { return nil })

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "publish-due", tasks[0].Name)
	assert.Equal(t, "1m0s", tasks[0].Interval)
}

func TestScheduler_TickRunsDueTasksOnly(t *testing.T) {
	s := NewScheduler(time.Second)
	var due, notDue int
	s.Register("due", time.Minute, func(context.Context) error { due++; return nil })
	s.Register("later", time.Hour, func(context.Context) error { notDue++; return nil })

	now := time.Now().Add(2 * time.Minute)
	s.tick(context.Background(), now)

	assert.Equal(t, 1, due)
	assert.Equal(t, 0, notDue)
	assert.Equal(t, int64(1), s.tasks[0].RunCount)
	assert.Equal(t, now.Add(time.Minute), s.tasks[0].NextRun)

	// not due again until the next interval
	s.tick(context.Background(), now.Add(30*time.Second))
	assert.Equal(t, 1, due)
}

func TestScheduler_TickRecordsError(t *testing.T) {
	s := NewScheduler(time.Second)
	s.Register("failing", time.Millisecond, func(context.Context) error { return errors.New("db down") })

	s.tick(context.Background(), time.Now().Add(time.Second))

	tasks := s.Tasks()
	require.NotNil(t, tasks[0].LastError)
	assert.Equal(t, "db down", *tasks[0].LastError)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(5 * time.Millisecond)
	var runs atomic.Int32
	s.Register("fast", time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, time.Second, 5*time.Millisecond)
	s.Stop()
}
