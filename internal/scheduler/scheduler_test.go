package scheduler

import (
	"io"
	"log"
	"testing"
	"time"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	return New(time.UTC, log.New(io.Discard, "", 0))
}

func TestScheduleIntervalIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)

	if err := s.ScheduleInterval("water_user_1", 60, func() {}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := s.ScheduleInterval("water_user_1", 30, func() {}); err != nil {
		t.Fatalf("re-schedule: %v", err)
	}

	if got := s.Len(); got != 1 {
		t.Fatalf("expected exactly one job after re-registration, got %d", got)
	}
	if !s.Has("water_user_1") {
		t.Fatalf("job missing after re-registration")
	}
}

func TestScheduleIntervalMinimum(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)

	if err := s.ScheduleInterval("tiny", 0.001, func() {}); err != ErrIntervalTooSmall {
		t.Fatalf("expected ErrIntervalTooSmall, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("rejected job must not be registered")
	}

	// One second exactly is allowed.
	if err := s.ScheduleInterval("edge", MinIntervalMinutes, func() {}); err != nil {
		t.Fatalf("minimum interval rejected: %v", err)
	}
}

func TestScheduleDailyValidation(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)

	if err := s.ScheduleDaily("bad", 24, 0, func() {}); err == nil {
		t.Fatalf("expected error for hour 24")
	}
	if err := s.ScheduleDaily("bad", 8, 60, func() {}); err == nil {
		t.Fatalf("expected error for minute 60")
	}
	if err := s.ScheduleDaily("sleep_user_2", 22, 0, func() {}); err != nil {
		t.Fatalf("valid daily trigger rejected: %v", err)
	}
}

func TestCancel(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)

	if err := s.ScheduleInterval("water_user_1", 60, func() {}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !s.Cancel("water_user_1") {
		t.Fatalf("expected Cancel to report removal")
	}
	if s.Cancel("water_user_1") {
		t.Fatalf("double cancel must report false")
	}
	if s.Len() != 0 {
		t.Fatalf("job still registered after cancel")
	}
}

func TestJobsSorted(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)

	for _, id := range []string{"c", "a", "b"} {
		if err := s.ScheduleInterval(id, 60, func() {}); err != nil {
			t.Fatalf("schedule %s: %v", id, err)
		}
	}

	jobs := s.Jobs()
	if len(jobs) != 3 || jobs[0] != "a" || jobs[1] != "b" || jobs[2] != "c" {
		t.Fatalf("unexpected job order: %v", jobs)
	}
}
