package execute

import (
	gocontext "context"
	"time"

	"github.com/pkg/errors"
)

// Sleeper waits for the given duration or until the context is done.
// The executor uses it for retry delays, tests inject a fake to avoid
// real time.
type Sleeper func(ctx gocontext.Context, d time.Duration) error

func defaultSleeper(ctx gocontext.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// attemptLoop drives a single task through its attempts. A task with
// retries=N makes at most N+1 attempts, sleeping delay between two of them.
// The loop stops on the first success, after the last allowed attempt, or
// when the context is cancelled while waiting for a retry. On failure the
// error of the last attempt is returned.
type attemptLoop struct {
	retries int
	delay   time.Duration
	sleep   Sleeper
	invoke  func(ctx gocontext.Context, attempt int) (interface{}, error)

	// hooks for logging and event publication, both optional
	onAttempt func(attempt int)
	onRetry   func(attempt int, err error)
}

func (l attemptLoop) run(ctx gocontext.Context) (interface{}, int, error) {
	max := l.retries + 1
	attempts := 0
	var lastErr error
	for attempt := 1; attempt <= max; attempt++ {
		attempts = attempt
		if l.onAttempt != nil {
			l.onAttempt(attempt)
		}
		value, err := l.safeInvoke(ctx, attempt)
		if err == nil {
			return value, attempts, nil
		}
		lastErr = err
		if attempt == max {
			break
		}
		if l.onRetry != nil {
			l.onRetry(attempt, err)
		}
		if serr := l.sleep(ctx, l.delay); serr != nil {
			// cancelled while waiting, the last attempt error stands
			break
		}
	}
	return nil, attempts, lastErr
}

// safeInvoke converts a panicking task function into a regular failed
// attempt so one misbehaving task cannot take the whole run down.
func (l attemptLoop) safeInvoke(ctx gocontext.Context, attempt int) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("task panicked: %v", r)
		}
	}()
	return l.invoke(ctx, attempt)
}
