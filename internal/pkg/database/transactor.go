package database

import "context"

// Transactor runs fn with all repository calls inside fn sharing one
// transaction. Read-modify-write sequences that span multiple repository
// calls go through this.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
