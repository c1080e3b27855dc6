package repositories

import "context"

// TxFn is the unit of work run inside a transaction. It must use the ctx it
// is given so its store calls join the transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs a uniqueness check and its write atomically on
// stores that support transactions.
type TransactionManager interface {
	// ExecTx runs fn in a transaction, committing when fn returns nil
	ExecTx(ctx context.Context, fn TxFn) error
}
