package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/presenzelab/presenze-backend-go/internal/domain/schedule"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) schedule.ShiftRepository {
	return &shiftRepository{db: db}
}

// GetByUserID implements schedule.ShiftRepository. A user without a
// configured shift gets the default one.
func (r *shiftRepository) GetByUserID(ctx context.Context, userID string) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, entrata, uscita, pausa_minuti, tolleranza_minuti
		FROM shifts
		WHERE user_id = $1
	`

	var s schedule.Shift
	err := q.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.Entrata, &s.Uscita, &s.PausaMinuti, &s.TolleranzaMinuti,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			def := schedule.Default()
			def.UserID = userID
			return def, nil
		}
		return schedule.Shift{}, fmt.Errorf("failed to get shift by user id: %w", err)
	}
	return s, nil
}
