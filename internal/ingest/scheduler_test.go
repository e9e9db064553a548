package ingest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerRunsImmediately(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	sc := &Scheduler{
		Interval: time.Hour,
		Poll:     time.Hour,
		Run: func(ctx context.Context) {
			runs.Add(1)
			cancel()
		},
	}

	done := make(chan struct{})
	go func() {
		sc.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}

	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1 immediate run", got)
	}
}

func TestSchedulerRunsPeriodically(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := &Scheduler{
		Interval: 20 * time.Millisecond,
		Poll:     5 * time.Millisecond,
		Run: func(ctx context.Context) {
			if runs.Add(1) >= 3 {
				cancel()
			}
		},
	}

	done := make(chan struct{})
	go func() {
		sc.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler never reached three runs")
	}

	if got := runs.Load(); got < 3 {
		t.Errorf("runs = %d, want at least 3", got)
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	sc := &Scheduler{
		Interval: time.Hour,
		Poll:     10 * time.Millisecond,
		Run:      func(ctx context.Context) {},
	}

	done := make(chan struct{})
	go func() {
		sc.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}
