// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
)

// Clock abstracts the wait between cycles
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// State of a Scheduler
type State int

const (
	// StateIdle is the state between cycles, and before the first one
	StateIdle State = iota
	// StateRunning means a cycle is in progress
	StateRunning
	// StateAborted is terminal: a cycle failed and nothing was rescheduled
	StateAborted
	// StateStopped is terminal: the scheduler was stopped or its context cancelled
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateAborted:
		return "aborted"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CycleFunc runs one sync cycle
type CycleFunc func(ctx context.Context) error

// Scheduler runs a cycle immediately and then again Interval after each
// completion. Cycles never overlap, and the first failure ends the loop.
type Scheduler struct {
	cycle    CycleFunc
	interval time.Duration
	clock    Clock

	mu      sync.Mutex
	state   State
	started bool

	stop     chan struct{}
	stopOnce sync.Once
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithClock replaces the wall clock, mainly for tests
func WithClock(clock Clock) SchedulerOption {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// NewScheduler creates a scheduler. A non-positive interval falls back to
// constants.DefaultSyncInterval.
func NewScheduler(cycle CycleFunc, interval time.Duration, opts ...SchedulerOption) *Scheduler {
	if interval <= 0 {
		interval = constants.DefaultSyncInterval
	}

	s := &Scheduler{
		cycle:    cycle,
		interval: interval,
		clock:    realClock{},
		state:    StateIdle,
		stop:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start runs the loop and blocks until it ends.
//
// It returns the error of the failing cycle, or nil once the scheduler was
// stopped. Stopping never interrupts a cycle in flight: the cycle runs on a
// context that is not cancelled with ctx, and Start returns after it completes.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.NewConflict("scheduler already started")
	}
	s.started = true
	s.mu.Unlock()

	slog.InfoContext(ctx, "scheduler started", "interval", s.interval.String())

	for {
		if s.stopRequested(ctx) {
			s.setState(StateStopped)
			slog.InfoContext(ctx, "scheduler stopped")
			return nil
		}

		s.setState(StateRunning)
		if err := s.cycle(context.WithoutCancel(ctx)); err != nil {
			s.setState(StateAborted)
			slog.ErrorContext(ctx, "sync cycle failed, scheduler aborted", "error", err)
			return err
		}
		s.setState(StateIdle)

		slog.DebugContext(ctx, "next sync cycle scheduled", "in", s.interval.String())

		select {
		case <-ctx.Done():
		case <-s.stop:
		case <-s.clock.After(s.interval):
		}
	}
}

// Stop ends the loop after the current cycle, if any. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// State returns the current state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Scheduler) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
}

func (s *Scheduler) stopRequested(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-s.stop:
		return true
	default:
		return false
	}
}
