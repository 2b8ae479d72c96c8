package main

import (
	"context"
	"errors"
	"time"

	dErrors "clockgeo/pkg/domain-errors"
	"clockgeo/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// timeoutRunner bounds every unit of work so a stuck row lock cannot hold a
// request until the server write timeout.
type timeoutRunner struct {
	next    tx.Runner
	timeout time.Duration
}

func newTimeoutRunner(next tx.Runner) *timeoutRunner {
	return &timeoutRunner{next: next, timeout: defaultTxTimeout}
}

func (t *timeoutRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	err := t.next.RunInTx(ctx, fn)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction timed out")
	}
	return err
}
