// Package autosave runs the periodic background save. The scheduler owns a
// ticker and a suspend latch; what "saving" means is injected, so the
// scheduler never needs to know about hosts or stores.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/wezkeep/wezkeep/internal/logging"
)

// SaveFunc persists the current state of the active workspace. It is called
// from the scheduler goroutine; implementations decide whether there is
// anything worth saving (an unregistered workspace, for instance, is skipped
// by returning nil).
type SaveFunc func(ctx context.Context) error

// Scheduler fires SaveFunc on a fixed interval, debounced, and stays quiet
// while the suspend latch is held. Restores hold the latch so that a tick
// landing mid-replay cannot snapshot a half-built layout.
type Scheduler struct {
	interval time.Duration
	debounce time.Duration
	save     SaveFunc
	logger   *logging.Logger

	// gate is an external suspension check consulted on every tick, on top
	// of the in-process latch. Restores run in their own process, so their
	// suspend signal arrives through the save directory, not this struct.
	gate func() bool

	mu        sync.Mutex
	suspended bool
	resumeAt  time.Time
	lastSave  time.Time
}

// New creates a Scheduler. A zero or negative interval disables it: Run
// returns immediately and ticks never fire.
func New(interval, debounce time.Duration, save SaveFunc, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Scheduler{
		interval: interval,
		debounce: debounce,
		save:     save,
		logger:   logger.WithOperation("autosave"),
	}
}

// Enabled reports whether the scheduler will ever fire.
func (s *Scheduler) Enabled() bool { return s.interval > 0 }

// GateWith registers an external suspension check. Ticks are skipped while
// it returns true. Must be called before Run.
func (s *Scheduler) GateWith(check func() bool) {
	s.gate = check
}

// Suspend holds the latch until Resume or ResumeAfter is called.
func (s *Scheduler) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended = true
	s.resumeAt = time.Time{}
}

// Resume releases the latch immediately.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended = false
	s.resumeAt = time.Time{}
}

// ResumeAfter releases the latch once the settle window has passed, giving
// the host time to finish laying out a freshly restored workspace before the
// next snapshot is taken.
func (s *Scheduler) ResumeAfter(settle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended = false
	s.resumeAt = time.Now().Add(settle)
}

// Suspended reports whether ticks are currently being skipped.
func (s *Scheduler) Suspended() bool {
	return s.suspendedAt(time.Now())
}

func (s *Scheduler) suspendedAt(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		return true
	}
	return now.Before(s.resumeAt)
}

// Run ticks until the context is cancelled. Errors from SaveFunc are logged
// and the loop keeps going; a failed autosave must never stop future ones.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.Enabled() {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

// tick runs one autosave attempt. Split out from Run so the debounce and
// suspend behavior is testable without real time.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	if s.suspendedAt(now) {
		s.logger.Debug("tick skipped, suspended")
		return
	}
	if s.gate != nil && s.gate() {
		s.logger.Debug("tick skipped, restore in flight elsewhere")
		return
	}

	s.mu.Lock()
	tooSoon := !s.lastSave.IsZero() && now.Sub(s.lastSave) < s.debounce
	s.mu.Unlock()
	if tooSoon {
		s.logger.Debug("tick skipped, within debounce window")
		return
	}

	if err := s.save(ctx); err != nil {
		s.logger.Warn("autosave failed", "error", err.Error())
		return
	}

	s.mu.Lock()
	s.lastSave = now
	s.mu.Unlock()
}
