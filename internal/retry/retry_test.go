package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoSucceedsOnThirdAttempt(t *testing.T) {
	calls := 0
	sleeps := 0

	policy := Policy{
		MaxAttempts: 3,
		Delay:       3 * time.Second,
		Sleep:       func(time.Duration) { sleeps++ },
	}

	err := policy.Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}

		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, sleeps)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")

	policy := Policy{
		MaxAttempts: 3,
		Sleep:       func(time.Duration) {},
	}

	err := policy.Do(func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	fatal := errors.New("fatal")

	policy := Policy{
		MaxAttempts: 3,
		Sleep:       func(time.Duration) {},
		Retryable:   func(err error) bool { return !errors.Is(err, fatal) },
	}

	err := policy.Do(func() error {
		calls++
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestZeroValueRunsOnce(t *testing.T) {
	calls := 0

	err := Policy{}.Do(func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}
