package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingJob counts executions and signals each run.
type countingJob struct {
	name string
	err  error

	mu   sync.Mutex
	runs int
	ran  chan struct{}
}

func newCountingJob(name string) *countingJob {
	return &countingJob{name: name, ran: make(chan struct{}, 16)}
}

func (j *countingJob) Name() string        { return j.name }
func (j *countingJob) Description() string { return "test job" }

func (j *countingJob) Run(_ context.Context) error {
	j.mu.Lock()
	j.runs++
	j.mu.Unlock()
	j.ran <- struct{}{}
	return j.err
}

func (j *countingJob) Runs() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

func waitForRun(t *testing.T, j *countingJob) {
	t.Helper()
	select {
	case <-j.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run in time")
	}
}

func newTestScheduler(clock Clock) *Scheduler {
	return New(Config{Clock: clock, TickInterval: time.Hour})
}

func TestScheduler_Register(t *testing.T) {
	s := newTestScheduler(newFakeClock(time.Now()))
	job := newCountingJob("job-a")

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Minute)))

	err := s.Register(job, NewIntervalSchedule(time.Minute))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)

	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Minute)), ErrNilJob)
	assert.ErrorIs(t, s.Register(newCountingJob("job-b"), nil), ErrNilSchedule)
}

func TestScheduler_RunsDueJob(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	s := newTestScheduler(clock)
	job := newCountingJob("sync")

	require.NoError(t, s.Register(job, NewIntervalSchedule(10*time.Minute)))
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop() }()

	// Not yet due.
	s.CheckAndRunJobs()
	assert.Zero(t, job.Runs())

	clock.Advance(11 * time.Minute)
	s.CheckAndRunJobs()
	waitForRun(t, job)
	assert.Equal(t, 1, job.Runs())

	// The next run was rescheduled; the same tick does not re-fire.
	s.CheckAndRunJobs()
	assert.Equal(t, 1, job.Runs())

	clock.Advance(11 * time.Minute)
	s.CheckAndRunJobs()
	waitForRun(t, job)
	assert.Equal(t, 2, job.Runs())
}

func TestScheduler_JobDueExactlyAtTickRuns(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	s := newTestScheduler(clock)
	job := newCountingJob("sync")

	require.NoError(t, s.Register(job, NewIntervalSchedule(10*time.Minute)))
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop() }()

	// The tick lands exactly on nextRun; the job must not wait another tick.
	clock.Advance(10 * time.Minute)
	s.CheckAndRunJobs()
	waitForRun(t, job)
	assert.Equal(t, 1, job.Runs())
}

func TestScheduler_DelayedSchedule(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	s := newTestScheduler(clock)
	job := newCountingJob("sync")

	require.NoError(t, s.Register(job, NewDelayedIntervalSchedule(5*time.Minute, 24*time.Hour)))
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop() }()

	clock.Advance(6 * time.Minute)
	s.CheckAndRunJobs()
	waitForRun(t, job)
	assert.Equal(t, 1, job.Runs())

	// An hour later the daily cadence has not elapsed yet.
	clock.Advance(time.Hour)
	s.CheckAndRunJobs()
	assert.Equal(t, 1, job.Runs())

	clock.Advance(24 * time.Hour)
	s.CheckAndRunJobs()
	waitForRun(t, job)
	assert.Equal(t, 2, job.Runs())
}

func TestScheduler_DisabledJobDoesNotRun(t *testing.T) {
	clock := newFakeClock(time.Now())
	s := newTestScheduler(clock)
	job := newCountingJob("sync")

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Minute)))
	require.NoError(t, s.DisableJob("sync"))
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop() }()

	clock.Advance(time.Hour)
	s.CheckAndRunJobs()
	assert.Zero(t, job.Runs())

	assert.ErrorIs(t, s.DisableJob("missing"), ErrJobNotFound)
	assert.ErrorIs(t, s.EnableJob("missing"), ErrJobNotFound)
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler(newFakeClock(time.Now()))

	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}

func TestScheduler_RunNow(t *testing.T) {
	clock := newFakeClock(time.Now())
	s := newTestScheduler(clock)
	job := newCountingJob("sync")
	job.err = errors.New("boom")

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "sync")
	require.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, 1, job.Runs())

	_, err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestScheduler_ListJobs(t *testing.T) {
	s := newTestScheduler(newFakeClock(time.Now()))
	require.NoError(t, s.Register(newCountingJob("sync"), NewIntervalSchedule(time.Hour)))

	jobs := s.ListJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "sync", jobs[0].Name)
	assert.True(t, jobs[0].Enabled)
	assert.Equal(t, "@every 1h0m0s", jobs[0].Schedule)
}
