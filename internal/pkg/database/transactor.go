package database

import "context"

// Transactor runs fn inside one database transaction. Repositories pick the
// transaction up from the context handed to fn, so every write made by fn
// commits or rolls back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
