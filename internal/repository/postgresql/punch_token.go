package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/presenzelab/presenze-backend-go/internal/domain/punchtoken"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/database"
)

type punchTokenRepository struct {
	db *database.DB
}

func NewPunchTokenRepository(db *database.DB) punchtoken.PunchTokenRepository {
	return &punchTokenRepository{db: db}
}

// Create implements punchtoken.PunchTokenRepository.
func (r *punchTokenRepository) Create(ctx context.Context, token punchtoken.PunchToken) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punch_tokens (id, issued_at, expires_at, used)
		VALUES ($1, $2, $3, false)
	`

	if _, err := q.Exec(ctx, query, token.ID, token.IssuedAt, token.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create punch token: %w", err)
	}
	return nil
}

// Consume implements punchtoken.PunchTokenRepository. The conditional
// UPDATE is the atomic check-and-set: of two concurrent consumers exactly
// one matches the unused row and flips it.
func (r *punchTokenRepository) Consume(ctx context.Context, id string, now time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE punch_tokens
		SET used = true
		WHERE id = $1 AND used = false AND expires_at > $2
	`

	tag, err := q.Exec(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("failed to consume punch token: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// The fast path lost; read the row to report why.
	var used bool
	var expiresAt time.Time
	err = q.QueryRow(ctx, `SELECT used, expires_at FROM punch_tokens WHERE id = $1`, id).Scan(&used, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return punchtoken.ErrTokenNotFound
		}
		return fmt.Errorf("failed to inspect punch token: %w", err)
	}
	if used {
		return punchtoken.ErrTokenAlreadyUsed
	}
	return punchtoken.ErrTokenExpired
}

// PurgeExpired implements punchtoken.PunchTokenRepository.
func (r *punchTokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM punch_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge punch tokens: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
