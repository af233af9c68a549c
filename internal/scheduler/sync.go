// Package scheduler runs the Kindle to Notion sync periodically and on demand.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/kindle2notion/internal/syncer"
)

// ErrAlreadyRunning is returned when a run is requested while another is in flight.
var ErrAlreadyRunning = errors.New("a sync run is already in progress")

// ErrStopped is returned when a run is requested after Stop.
var ErrStopped = errors.New("sync scheduler is stopped")

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// SyncFunc performs one full sync of the clippings file.
type SyncFunc func(ctx context.Context) (syncer.Summary, error)

// Status is a snapshot of the scheduler for the status API.
type Status struct {
	Scheduled bool            `json:"scheduled"`
	Schedule  string          `json:"schedule,omitempty"`
	NextRun   *time.Time      `json:"next_run,omitempty"`
	Running   bool            `json:"running"`
	LastRun   *syncer.Summary `json:"last_run,omitempty"`
}

// SyncScheduler owns the single-flight guard shared by cron runs and manual
// triggers, so at most one run is active per process.
type SyncScheduler struct {
	run SyncFunc
	log *zap.Logger

	// ctx outlives individual requests; Stop cancels it.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// gate orders wg.Add in acquire before wg.Wait in Stop.
	gate    sync.Mutex
	stopped bool

	cron      *cron.Cron
	entryID   cron.EntryID
	schedule  string
	mu        sync.RWMutex
	isRunning bool

	syncing atomic.Bool
	lastMu  sync.RWMutex
	last    *syncer.Summary
}

func NewSyncScheduler(run SyncFunc, log *zap.Logger) *SyncScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &SyncScheduler{
		run:    run,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		cron:   cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateSchedule checks a standard five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start registers the periodic sync job and starts the cron loop.
func (s *SyncScheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	entryID, err := s.cron.AddFunc(schedule, s.scheduledRun)
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID
	s.schedule = schedule

	s.cron.Start()
	s.isRunning = true

	s.log.Info("sync scheduler started",
		zap.String("schedule", schedule),
		zap.Time("next_run", s.cron.Entry(entryID).Next))
	return nil
}

// Stop cancels any in-flight run, halts the cron loop and waits for the run to return.
func (s *SyncScheduler) Stop() {
	s.gate.Lock()
	s.stopped = true
	s.cancel()
	s.gate.Unlock()

	s.mu.Lock()
	if s.isRunning {
		<-s.cron.Stop().Done()
		s.isRunning = false
		s.log.Info("sync scheduler stopped")
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// RunNow runs a sync synchronously on ctx.
func (s *SyncScheduler) RunNow(ctx context.Context) (syncer.Summary, error) {
	if err := s.acquire(); err != nil {
		return syncer.Summary{}, err
	}
	defer s.wg.Done()
	return s.execute(ctx)
}

// Trigger starts a sync in the background. It returns ErrAlreadyRunning
// instead of queueing when a run is in flight.
func (s *SyncScheduler) Trigger() error {
	if err := s.acquire(); err != nil {
		return err
	}
	go func() {
		defer s.wg.Done()
		_, _ = s.execute(s.ctx)
	}()
	return nil
}

// acquire takes the single-flight flag and registers the run with wg.
func (s *SyncScheduler) acquire() error {
	s.gate.Lock()
	defer s.gate.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if !s.syncing.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	s.wg.Add(1)
	return nil
}

// IsSyncing reports whether a run is in flight.
func (s *SyncScheduler) IsSyncing() bool {
	return s.syncing.Load()
}

// IsRunning returns whether the cron loop is active.
func (s *SyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next scheduled sync will occur.
func (s *SyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	return &t
}

// LastRun returns the summary of the most recent finished run, or nil.
func (s *SyncScheduler) LastRun() *syncer.Summary {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.last == nil {
		return nil
	}
	copied := *s.last
	return &copied
}

func (s *SyncScheduler) Status() Status {
	s.mu.RLock()
	scheduled, schedule := s.isRunning, s.schedule
	s.mu.RUnlock()

	return Status{
		Scheduled: scheduled,
		Schedule:  schedule,
		NextRun:   s.GetNextRunTime(),
		Running:   s.IsSyncing(),
		LastRun:   s.LastRun(),
	}
}

func (s *SyncScheduler) scheduledRun() {
	if _, err := s.RunNow(s.ctx); errors.Is(err, ErrAlreadyRunning) {
		s.log.Info("scheduled sync skipped, previous run still in progress")
	}
}

// execute expects the caller to hold the single-flight flag.
func (s *SyncScheduler) execute(ctx context.Context) (syncer.Summary, error) {
	defer s.syncing.Store(false)

	summary, err := s.run(ctx)
	if err != nil {
		if summary.Error == "" {
			summary.Error = err.Error()
		}
		s.log.Error("sync run failed", zap.String("run_id", summary.RunID), zap.Error(err))
	}

	s.lastMu.Lock()
	s.last = &summary
	s.lastMu.Unlock()

	return summary, err
}
