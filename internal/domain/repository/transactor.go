package repository

import "context"

// Transactor runs fn in a database transaction. Repositories called with the
// ctx passed to fn join that transaction. Nested calls reuse the outer
// transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
