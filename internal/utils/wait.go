// Package utils holds small helpers shared by the scraping and LLM layers.
package utils

import (
	"context"
	"time"
)

var sleep = time.Sleep

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// WaitFor blocks for d, returning early with ctx.Err() if ctx is cancelled first.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	sleepFn := sleep
	done := make(chan struct{})
	go func() {
		defer close(done)
		sleepFn(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
