package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJobRejectsBadSpec(t *testing.T) {
	s := NewCronScheduler()
	err := s.AddJob(NewFuncJob("bad", func(context.Context) error { return nil }), "not a spec")
	assert.Error(t, err)
}

func TestWrapSkipsOverlappingRuns(t *testing.T) {
	s := NewCronScheduler()
	s.ctx = context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	var runs atomic.Int32
	job := NewFuncJob(JobCleanupDownloadTokens, func(context.Context) error {
		runs.Add(1)
		close(started)
		<-release
		return nil
	})

	run := s.wrap(job, "@every 1m")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		run()
	}()
	<-started

	// Second invocation while the first is blocked must be skipped.
	run()
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
}

func TestWrapRunsAgainAfterError(t *testing.T) {
	s := NewCronScheduler()
	var runs int
	run := s.wrap(NewFuncJob(JobExpireDeletionRequests, func(context.Context) error {
		runs++
		return errors.New("db down")
	}), "*/15 * * * *")

	run()
	run()
	assert.Equal(t, 2, runs)
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewCronScheduler()
	require.NoError(t, s.AddJob(NewFuncJob("noop", func(context.Context) error { return nil }), "@hourly"))
	assert.Len(t, s.entries, 1)

	s.Start(context.Background())
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
