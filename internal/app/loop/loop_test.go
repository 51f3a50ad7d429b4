package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoopRunsJobsBetweenTicks(t *testing.T) {
	var mu sync.Mutex
	inStep := false
	overlap := false
	steps := 0
	l := New(time.Millisecond, func() {
		mu.Lock()
		inStep = true
		steps++
		mu.Unlock()
		time.Sleep(100 * time.Microsecond)
		mu.Lock()
		inStep = false
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	for i := 0; i < 20; i++ {
		err := l.Do(context.Background(), func() error {
			mu.Lock()
			defer mu.Unlock()
			if inStep {
				overlap = true
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
	}
	cancel()
	<-done

	if overlap {
		t.Fatalf("job ran while a step was in progress")
	}
	if l.Ticks() != uint64(steps) {
		t.Fatalf("ticks got=%d want=%d", l.Ticks(), steps)
	}
}

func TestLoopDoReturnsJobError(t *testing.T) {
	l := New(time.Hour, func() {})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	want := errors.New("boom")
	if err := l.Do(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("Do got=%v want=%v", err, want)
	}
}

func TestLoopDoAfterStop(t *testing.T) {
	l := New(time.Hour, func() {})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	if err := l.Do(context.Background(), func() error { return nil }); !errors.Is(err, ErrStopped) {
		t.Fatalf("Do got=%v want=%v", err, ErrStopped)
	}
}

func TestStepCountsTicks(t *testing.T) {
	n := 0
	l := New(0, func() { n++ })
	l.Step()
	l.Step()
	if n != 2 || l.Ticks() != 2 {
		t.Fatalf("steps got=%d ticks=%d", n, l.Ticks())
	}
}
