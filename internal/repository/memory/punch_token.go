package memory

import (
	"context"
	"sync"
	"time"

	"github.com/presenzelab/presenze-backend-go/internal/domain/punchtoken"
)

type PunchTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]punchtoken.PunchToken
}

func NewPunchTokenRepository() *PunchTokenRepository {
	return &PunchTokenRepository{tokens: make(map[string]punchtoken.PunchToken)}
}

func (r *PunchTokenRepository) Create(_ context.Context, token punchtoken.PunchToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.ID] = token
	return nil
}

// Consume performs the check-and-set under the repository mutex, matching
// the conditional UPDATE of the postgresql implementation.
func (r *PunchTokenRepository) Consume(_ context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[id]
	if !ok {
		return punchtoken.ErrTokenNotFound
	}
	if token.Used {
		return punchtoken.ErrTokenAlreadyUsed
	}
	if token.Expired(now) {
		return punchtoken.ErrTokenExpired
	}

	token.Used = true
	r.tokens[id] = token
	return nil
}

func (r *PunchTokenRepository) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for id, token := range r.tokens {
		if token.Expired(now) {
			delete(r.tokens, id)
			purged++
		}
	}
	return purged, nil
}
