// Package retry gives storage calls one bounded second attempt when the
// failure looks transient (connection loss, serialization failure, deadlock).
package retry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"

	"clockgeo/pkg/platform/sentinel"
)

const (
	maxRetries      = 1
	initialInterval = 50 * time.Millisecond
	maxElapsed      = 2 * time.Second
)

// Once runs op and, if it fails with a transient error, runs it exactly once
// more after a short backoff. Non-transient errors are returned immediately.
func Once(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialInterval
	b.MaxElapsedTime = maxElapsed
	policy := backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil || IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sentinel.ErrUnavailable) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch {
		case strings.HasPrefix(code, "08"): // connection exception
			return true
		case code == "40001", code == "40P01": // serialization failure, deadlock
			return true
		case code == "57P01": // admin shutdown
			return true
		}
	}
	return false
}
