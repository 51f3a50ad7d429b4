// Package loop runs the host game and the minimap on one goroutine.
package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

const DefaultInterval = 16 * time.Millisecond

var ErrStopped = errors.New("loop stopped")

type job struct {
	fn   func() error
	done chan error
}

// Loop ticks at a fixed interval. Work submitted with Do runs between ticks
// on the loop goroutine, so the step never races with it.
type Loop struct {
	interval time.Duration
	step     func()
	jobs     chan job
	stopped  chan struct{}
	ticks    atomic.Uint64
}

func New(interval time.Duration, step func()) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		step:     step,
		jobs:     make(chan job, 16),
		stopped:  make(chan struct{}),
	}
}

// Run blocks until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer close(l.stopped)

	for {
		select {
		case <-ctx.Done():
			l.drainJobs()
			return
		case j := <-l.jobs:
			j.done <- j.fn()
		case <-ticker.C:
			l.Step()
		}
	}
}

// Step runs one tick on the calling goroutine.
func (l *Loop) Step() {
	l.step()
	l.ticks.Add(1)
}

func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

// Do runs fn on the loop goroutine and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	j := job{fn: fn, done: make(chan error, 1)}
	select {
	case l.jobs <- j:
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-j.done:
		return err
	case <-l.stopped:
		select {
		case err := <-j.done:
			return err
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) drainJobs() {
	for {
		select {
		case j := <-l.jobs:
			j.done <- ErrStopped
		default:
			return
		}
	}
}
