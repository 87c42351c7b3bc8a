package db

import (
	"context"
	"errors"
)

type StubTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ TxManager = &StubTxManager{}

// RunInTx calls fn directly when no override is set, so service tests run
// their transactional flows without a database.
func (m *StubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc == nil {
		if fn == nil {
			return errors.New("RunInTx() called with nil fn")
		}
		return fn(ctx)
	}
	return m.RunInTxFunc(ctx, fn)
}
