// Package retry provides the bounded retry policy shared by the
// profile-update call sites.
package retry

import (
	"time"
)

// Policy retries an operation a fixed number of times with a fixed
// delay between attempts. The zero value runs the operation once.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Delay is slept between attempts, never after the last one.
	Delay time.Duration
	// Retryable decides whether an error is worth another attempt.
	// Nil treats every error as retryable.
	Retryable func(error) bool

	// Sleep is swappable for tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// Do runs op until it succeeds or attempts are exhausted, returning the
// last error.
func (p Policy) Do(op func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			sleep(p.Delay)
		}

		if err = op(); err == nil {
			return nil
		}

		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}

	return err
}
