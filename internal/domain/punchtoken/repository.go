package punchtoken

import (
	"context"
	"time"
)

// PunchTokenRepository stores kiosk tokens. Consume is the critical
// operation: the expiry check and the used flip must be one atomic step,
// so that concurrent consumers of the same token see exactly one success.
type PunchTokenRepository interface {
	// Create persists a freshly issued token
	Create(ctx context.Context, token PunchToken) error

	// Consume atomically validates and burns a token. It returns
	// ErrTokenNotFound, ErrTokenExpired or ErrTokenAlreadyUsed on
	// rejection; now is the validation instant.
	Consume(ctx context.Context, id string, now time.Time) error

	// PurgeExpired deletes tokens whose expiry is before now and returns
	// how many were removed
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
