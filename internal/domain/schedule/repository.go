package schedule

import "context"

// ShiftRepository resolves per-user scheduled shifts. Implementations fall
// back to Default() when no shift is configured for the user.
type ShiftRepository interface {
	GetByUserID(ctx context.Context, userID string) (Shift, error)
}
