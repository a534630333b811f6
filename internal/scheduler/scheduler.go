// Package scheduler runs recurring reminder jobs on top of robfig/cron,
// keyed by a unique job id with replace-on-reregister semantics.
package scheduler

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// MinIntervalMinutes is one second, the smallest interval a job can run
// at.
const MinIntervalMinutes = 1.0 / 60

// ErrIntervalTooSmall is returned for intervals below one second.
var ErrIntervalTooSmall = fmt.Errorf("interval below minimum of %.4f minutes", MinIntervalMinutes)

// Scheduler owns the cron runner and a registry mapping job ids to cron
// entries. Registration is idempotent: scheduling under an existing id
// replaces the previous job, so an active reminder never has more than
// one live job.
type Scheduler struct {
	cron   *cron.Cron
	logger *log.Logger

	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

// New creates a stopped scheduler in the given location. Call Start
// once boot-time rescheduling has populated the registry.
func New(loc *time.Location, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// Start launches the cron runner.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the runner and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ScheduleInterval registers fn to run every minutes minutes under
// jobID, replacing any job already registered under that id.
func (s *Scheduler) ScheduleInterval(jobID string, minutes float64, fn func()) error {
	if minutes < MinIntervalMinutes {
		return ErrIntervalTooSmall
	}

	every := time.Duration(minutes * float64(time.Minute))
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(jobID)
	entry := s.cron.Schedule(cron.Every(every), cron.FuncJob(fn))
	s.jobs[jobID] = entry
	s.logger.Printf("scheduler: job %s every %s", jobID, every)
	return nil
}

// ScheduleDaily registers fn to run once a day at hour:minute under
// jobID, replacing any job already registered under that id.
func (s *Scheduler) ScheduleDaily(jobID string, hour, minute int, fn func()) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid daily trigger %02d:%02d", hour, minute)
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(jobID)
	entry, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("schedule daily %s: %w", jobID, err)
	}
	s.jobs[jobID] = entry
	s.logger.Printf("scheduler: job %s daily at %02d:%02d", jobID, hour, minute)
	return nil
}

// Cancel removes the job registered under jobID, if any. A firing
// already in flight is allowed to complete; only future firings are
// suppressed.
func (s *Scheduler) Cancel(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(jobID)
}

func (s *Scheduler) removeLocked(jobID string) bool {
	entry, ok := s.jobs[jobID]
	if !ok {
		return false
	}
	s.cron.Remove(entry)
	delete(s.jobs, jobID)
	return true
}

// Jobs returns the registered job ids in sorted order.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether a job is registered under jobID.
func (s *Scheduler) Has(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[jobID]
	return ok
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
