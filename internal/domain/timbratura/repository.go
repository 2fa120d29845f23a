package timbratura

import (
	"context"
	"time"
)

// TimbraturaRepository defines data access for attendance records.
type TimbraturaRepository interface {
	// Create inserts an open record. Implementations must enforce the
	// at-most-one-open-record-per-(user, date) invariant and return
	// ErrOpenRecordConflict when it would be violated.
	Create(ctx context.Context, t Timbratura) (Timbratura, error)

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (Timbratura, error)

	// GetByUserAndDate retrieves the record for a user on a calendar day,
	// nil when none exists
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Timbratura, error)

	// Update overwrites the mutable fields of an existing record
	Update(ctx context.Context, t Timbratura) error

	// ListByUser retrieves a user's records with date in [from, to)
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]Timbratura, error)

	// ListCompleted retrieves all completed records with date in [from, to),
	// across users, for aggregation and export
	ListCompleted(ctx context.Context, from, to time.Time) ([]Timbratura, error)

	// Delete removes a record (admin only)
	Delete(ctx context.Context, id string) error
}
