package token

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/presenzelab/presenze-backend-go/internal/domain/punchtoken"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/clock"
)

const DefaultTTL = 5 * time.Minute

type TokenServiceImpl struct {
	punchtoken.PunchTokenRepository
	clock clock.Clock
	ttl   time.Duration
}

func NewTokenService(repository punchtoken.PunchTokenRepository, clk clock.Clock, ttl time.Duration) punchtoken.TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenServiceImpl{
		PunchTokenRepository: repository,
		clock:                clk,
		ttl:                  ttl,
	}
}

// Issue implements punchtoken.TokenService.
func (s *TokenServiceImpl) Issue(ctx context.Context) (punchtoken.WirePayload, error) {
	now := s.clock.Now()
	token := punchtoken.PunchToken{
		ID:        uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.PunchTokenRepository.Create(ctx, token); err != nil {
		return punchtoken.WirePayload{}, fmt.Errorf("failed to store punch token: %w", err)
	}

	return punchtoken.WirePayload{
		Token:    token.ID,
		IssuedAt: token.IssuedAt,
		Type:     punchtoken.WireType,
	}, nil
}

// ValidateAndConsume implements punchtoken.TokenService. Atomicity of the
// check-and-set lives in the repository.
func (s *TokenServiceImpl) ValidateAndConsume(ctx context.Context, id string) error {
	return s.PunchTokenRepository.Consume(ctx, id, s.clock.Now())
}

// PurgeExpired implements punchtoken.TokenService.
func (s *TokenServiceImpl) PurgeExpired(ctx context.Context) (int, error) {
	return s.PunchTokenRepository.PurgeExpired(ctx, s.clock.Now())
}
