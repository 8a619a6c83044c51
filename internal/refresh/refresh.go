// Package refresh periodically re-fetches the active dashboard view so
// a dashboard left open does not go stale. The selection's fetch-token
// rule makes an overlap with a user-triggered fetch harmless: whichever
// request was issued last wins.
package refresh

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Target is the piece of the dashboard the refresher drives.
type Target interface {
	Refresh(ctx context.Context) error
}

// Refresher re-issues the active view's fetch on a fixed interval.
type Refresher struct {
	scheduler *gocron.Scheduler
	target    Target
	interval  time.Duration
	timeout   time.Duration
}

// New creates a Refresher. A non-positive interval disables it.
func New(target Target, interval, timeout time.Duration) *Refresher {
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic refresh job.
func (r *Refresher) Start() error {
	if r.interval <= 0 {
		log.Println("refresh: disabled; no interval configured")
		return nil
	}

	_, err := r.scheduler.Every(r.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.target.Refresh(ctx); err != nil {
			log.Printf("refresh: background refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
