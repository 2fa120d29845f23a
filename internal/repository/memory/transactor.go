package memory

import "context"

// Transactor runs fn directly. The in-memory repositories take their
// mutex per call, so there is no ambient transaction to install.
type Transactor struct{}

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
