package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "ccscraper/pkg/errors"
)

func TestConstantBackoff(t *testing.T) {
	cb := &ConstantBackoff{Delay: 5 * time.Millisecond}
	assert.Equal(t, time.Duration(0), cb.NextDelay(0))
	assert.Equal(t, 5*time.Millisecond, cb.NextDelay(1))
	assert.Equal(t, 5*time.Millisecond, cb.NextDelay(9))
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.ErrorTypeNetwork, "/x", "connection reset")
		}
		return nil
	}, &Config{MaxAttempts: 5, Backoff: &ConstantBackoff{Delay: time.Millisecond}})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	parseErr := errs.New(errs.ErrorTypeParsing, "/x", "bad markup")
	err := Do(func() error {
		calls++
		return parseErr
	}, &Config{
		MaxAttempts: 5,
		RetryIf:     func(err error) bool { return errs.IsType(err, errs.ErrorTypeNetwork) },
	})

	assert.Same(t, parseErr, err)
	assert.Equal(t, 1, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.New(errs.ErrorTypeNetwork, "/x", "timeout").WithCode(302)
	}, &Config{MaxAttempts: 4})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.True(t, errs.IsType(err, errs.ErrorTypeNetwork))
	assert.Equal(t, 302, errs.CodeOf(err))
	assert.Equal(t, 4, calls)
}

func TestDoWaitsBetweenAttempts(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.ErrorTypeNetwork, "/x", "server redirected")
		}
		return nil
	}, &Config{MaxAttempts: 3, Backoff: &ConstantBackoff{Delay: 30 * time.Millisecond}})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestDoNilConfigRunsOnce(t *testing.T) {
	sentinel := errors.New("once")
	calls := 0
	err := Do(func() error {
		calls++
		return sentinel
	}, nil)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestDoCustomPredicate(t *testing.T) {
	sentinel := errors.New("again")
	calls := 0
	err := Do(func() error {
		calls++
		return sentinel
	}, &Config{
		MaxAttempts: 2,
		RetryIf:     func(err error) bool { return errors.Is(err, sentinel) },
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(func() error {
		calls++
		cancel()
		return errs.New(errs.ErrorTypeNetwork, "/x", "reset")
	}, &Config{
		MaxAttempts: 10,
		Backoff:     &ConstantBackoff{Delay: time.Hour},
		Context:     ctx,
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	got, err := DoWithResult(func() (string, error) {
		calls++
		if calls == 1 {
			return "", errs.New(errs.ErrorTypeNetwork, "/x", "reset")
		}
		return "<html></html>", nil
	}, &Config{MaxAttempts: 2})

	require.NoError(t, err)
	assert.Equal(t, "<html></html>", got)
	assert.Equal(t, 2, calls)
}
