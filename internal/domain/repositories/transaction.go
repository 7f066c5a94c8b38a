package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs a unit of work atomically: every repository call
// made with the ctx passed to fn commits together or not at all.
type TransactionManager interface {
	// ExecTx executes fn within a transaction. A non-nil error from fn,
	// a panic, or a cancelled ctx rolls the whole unit back.
	ExecTx(ctx context.Context, fn TxFn) error
}
