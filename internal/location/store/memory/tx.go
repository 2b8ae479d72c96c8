package memory

import (
	"context"
	"sync"

	"clockgeo/pkg/platform/tx"
)

// TxRunner serializes units of work over the in-memory stores. It gives
// isolation but not rollback.
type TxRunner struct {
	mu sync.Mutex
}

func NewTxRunner() *TxRunner {
	return &TxRunner{}
}

func (r *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(tx.MarkUnit(ctx))
}
