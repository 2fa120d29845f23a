package user

import "context"

// UserRepository reads accounts owned by the external identity provider.
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (User, error)

	// ListByIDs retrieves the users for a set of IDs, missing IDs are skipped
	ListByIDs(ctx context.Context, ids []string) ([]User, error)
}
