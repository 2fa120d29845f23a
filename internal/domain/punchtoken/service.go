package punchtoken

import "context"

// TokenService mints and consumes kiosk punch tokens.
type TokenService interface {
	// Issue mints a single-use token with the configured TTL and returns
	// the QR wire payload
	Issue(ctx context.Context) (WirePayload, error)

	// ValidateAndConsume burns the token if it is live and unused
	ValidateAndConsume(ctx context.Context, id string) error

	// PurgeExpired garbage-collects expired tokens
	PurgeExpired(ctx context.Context) (int, error)
}
