package ingest

import (
	"context"
	"log"
	"time"
)

// Scheduler drives the workflow: one run at startup, then one run every
// Interval, checked at Poll granularity. Runs never overlap; a run that
// outlasts the interval delays the next trigger rather than skipping it.
type Scheduler struct {
	Interval time.Duration // defaults to 24h
	Poll     time.Duration // defaults to 1m
	Run      func(ctx context.Context)
}

// Start blocks until ctx is cancelled.
func (sc *Scheduler) Start(ctx context.Context) {
	interval := sc.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	poll := sc.Poll
	if poll <= 0 {
		poll = time.Minute
	}

	sc.Run(ctx)
	next := time.Now().Add(interval)
	log.Printf("scheduler started, next run at %s", next.Format(time.RFC3339))

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Before(next) {
				continue
			}
			sc.Run(ctx)
			next = time.Now().Add(interval)
		}
	}
}
