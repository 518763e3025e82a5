package scheduler

import (
	"fmt"
	"sync"
	"time"
)

// IntervalSchedule schedules a job to run at a fixed interval.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a new IntervalSchedule.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{
		Interval: interval,
	}
}

// Next returns the next scheduled time.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String returns the string representation of the schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval.String())
}

// DelayedIntervalSchedule runs once after an initial delay and then at a
// fixed interval. Used for the GitHub sync: a short warm-up delay after
// startup, then a daily cadence.
type DelayedIntervalSchedule struct {
	InitialDelay time.Duration
	Interval     time.Duration

	mu    sync.Mutex
	fired bool
}

// NewDelayedIntervalSchedule creates a new DelayedIntervalSchedule.
func NewDelayedIntervalSchedule(initialDelay, interval time.Duration) *DelayedIntervalSchedule {
	return &DelayedIntervalSchedule{
		InitialDelay: initialDelay,
		Interval:     interval,
	}
}

// Next returns the next scheduled time: t plus the initial delay on the
// first call, t plus the interval afterwards.
func (s *DelayedIntervalSchedule) Next(t time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fired {
		s.fired = true
		return t.Add(s.InitialDelay)
	}
	return t.Add(s.Interval)
}

// String returns the string representation of the schedule.
func (s *DelayedIntervalSchedule) String() string {
	return fmt.Sprintf("@after %s then every %s", s.InitialDelay.String(), s.Interval.String())
}
