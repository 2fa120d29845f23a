package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/database"
)

type timbraturaRepository struct {
	db *database.DB
}

func NewTimbraturaRepository(db *database.DB) timbratura.TimbraturaRepository {
	return &timbraturaRepository{db: db}
}

const timbraturaColumns = `
	id, user_id, date, entrata, uscita, pausa_inizio, pausa_fine,
	ore_totali, straordinario, ritardo_minuti, metodo, commessa,
	approvata, approvata_da, created_at, updated_at
`

func scanTimbratura(row pgx.Row) (timbratura.Timbratura, error) {
	var t timbratura.Timbratura
	err := row.Scan(
		&t.ID, &t.UserID, &t.Date, &t.Entrata, &t.Uscita, &t.PausaInizio, &t.PausaFine,
		&t.OreTotali, &t.Straordinario, &t.RitardoMinuti, &t.Metodo, &t.Commessa,
		&t.Approvata, &t.ApprovataDa, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Create implements timbratura.TimbraturaRepository. The partial unique
// index timbrature_open_unique_idx on (user_id, date) WHERE uscita IS NULL
// backs the one-open-record invariant across instances.
func (r *timbraturaRepository) Create(ctx context.Context, t timbratura.Timbratura) (timbratura.Timbratura, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timbrature (
			user_id, date, entrata, pausa_inizio, pausa_fine,
			ritardo_minuti, metodo, commessa
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		t.UserID,
		t.Date,
		t.Entrata,
		t.PausaInizio,
		t.PausaFine,
		t.RitardoMinuti,
		t.Metodo,
		t.Commessa,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return timbratura.Timbratura{}, timbratura.ErrOpenRecordConflict
		}
		return timbratura.Timbratura{}, fmt.Errorf("failed to create timbratura: %w", err)
	}

	return t, nil
}

// GetByID implements timbratura.TimbraturaRepository.
func (r *timbraturaRepository) GetByID(ctx context.Context, id string) (timbratura.Timbratura, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timbraturaColumns + ` FROM timbrature WHERE id = $1`

	t, err := scanTimbratura(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timbratura.Timbratura{}, timbratura.ErrTimbraturaNotFound
		}
		return timbratura.Timbratura{}, fmt.Errorf("failed to get timbratura by id: %w", err)
	}
	return t, nil
}

// GetByUserAndDate implements timbratura.TimbraturaRepository.
func (r *timbraturaRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*timbratura.Timbratura, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timbraturaColumns + `
		FROM timbrature
		WHERE user_id = $1 AND date = $2
		LIMIT 1
	`

	t, err := scanTimbratura(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no record for this day
		}
		return nil, fmt.Errorf("failed to get timbratura by user and date: %w", err)
	}
	return &t, nil
}

// Update implements timbratura.TimbraturaRepository.
func (r *timbraturaRepository) Update(ctx context.Context, t timbratura.Timbratura) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timbrature
		SET uscita = $2,
			pausa_inizio = $3,
			pausa_fine = $4,
			ore_totali = $5,
			straordinario = $6,
			commessa = $7,
			approvata = $8,
			approvata_da = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		t.ID,
		t.Uscita,
		t.PausaInizio,
		t.PausaFine,
		t.OreTotali,
		t.Straordinario,
		t.Commessa,
		t.Approvata,
		t.ApprovataDa,
	)
	if err != nil {
		return fmt.Errorf("failed to update timbratura: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timbratura.ErrTimbraturaNotFound
	}
	return nil
}

// ListByUser implements timbratura.TimbraturaRepository.
func (r *timbraturaRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]timbratura.Timbratura, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timbraturaColumns + `
		FROM timbrature
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC, entrata ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list timbrature by user: %w", err)
	}
	defer rows.Close()

	return collectTimbrature(rows)
}

// ListCompleted implements timbratura.TimbraturaRepository.
func (r *timbraturaRepository) ListCompleted(ctx context.Context, from, to time.Time) ([]timbratura.Timbratura, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timbraturaColumns + `
		FROM timbrature
		WHERE uscita IS NOT NULL AND date >= $1 AND date < $2
		ORDER BY date ASC, entrata ASC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed timbrature: %w", err)
	}
	defer rows.Close()

	return collectTimbrature(rows)
}

// Delete implements timbratura.TimbraturaRepository.
func (r *timbraturaRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM timbrature WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete timbratura: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timbratura.ErrTimbraturaNotFound
	}
	return nil
}

func collectTimbrature(rows pgx.Rows) ([]timbratura.Timbratura, error) {
	var result []timbratura.Timbratura
	for rows.Next() {
		t, err := scanTimbratura(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timbratura: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timbrature: %w", err)
	}
	return result, nil
}
