package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/presenzelab/presenze-backend-go/internal/domain/punchtoken"
	pkgredis "github.com/presenzelab/presenze-backend-go/internal/pkg/redis"
)

const (
	tokenPrefix = "punchtoken"

	stateUnused = "unused"
	stateUsed   = "used"

	// tombstoneTTL keeps a consumed marker around long enough for a second
	// scan of the same QR code to get "already used" instead of "not found".
	tombstoneTTL = 10 * time.Minute
)

// punchTokenRepository stores kiosk tokens in redis. Expiry is delegated
// to redis TTLs, so an expired token is indistinguishable from an unknown
// one and is reported as not found.
type punchTokenRepository struct {
	client *goredis.Client
}

func NewPunchTokenRepository(client *goredis.Client) punchtoken.PunchTokenRepository {
	return &punchTokenRepository{client: client}
}

func tokenKey(id string) string {
	return pkgredis.Key(tokenPrefix, id)
}

// Create implements punchtoken.PunchTokenRepository.
func (r *punchTokenRepository) Create(ctx context.Context, token punchtoken.PunchToken) error {
	ttl := token.ExpiresAt.Sub(token.IssuedAt)
	if ttl <= 0 {
		return fmt.Errorf("punch token ttl must be positive")
	}
	if err := r.client.Set(ctx, tokenKey(token.ID), stateUnused, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store punch token: %w", err)
	}
	return nil
}

// Consume implements punchtoken.PunchTokenRepository. GETDEL is the atomic
// decider: of two concurrent consumers exactly one receives the unused
// value. The tombstone written afterwards is best-effort reporting only.
func (r *punchTokenRepository) Consume(ctx context.Context, id string, _ time.Time) error {
	key := tokenKey(id)

	val, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return punchtoken.ErrTokenNotFound
		}
		return fmt.Errorf("failed to consume punch token: %w", err)
	}

	if val == stateUsed {
		// Put the tombstone back for the next scanner.
		_ = r.client.Set(ctx, key, stateUsed, tombstoneTTL).Err()
		return punchtoken.ErrTokenAlreadyUsed
	}

	_ = r.client.Set(ctx, key, stateUsed, tombstoneTTL).Err()
	return nil
}

// PurgeExpired implements punchtoken.PunchTokenRepository. Redis expires
// keys on its own; there is nothing to sweep.
func (r *punchTokenRepository) PurgeExpired(ctx context.Context, _ time.Time) (int, error) {
	return 0, nil
}
