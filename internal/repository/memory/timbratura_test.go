package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
)

func TestTimbraturaCreate_SecondOpenRecordConflicts(t *testing.T) {
	t.Parallel()

	repo := NewTimbraturaRepository()
	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	record := timbratura.Timbratura{
		UserID:  "user-1",
		Date:    day,
		Entrata: day.Add(9 * time.Hour),
		Metodo:  timbratura.MetodoManual,
	}

	_, err := repo.Create(context.Background(), record)
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), record)
	assert.ErrorIs(t, err, timbratura.ErrOpenRecordConflict)
}

func TestTimbraturaCreate_ConflictScopedToOpenRecordsAndDay(t *testing.T) {
	t.Parallel()

	repo := NewTimbraturaRepository()
	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	record := timbratura.Timbratura{
		UserID:  "user-1",
		Date:    day,
		Entrata: day.Add(9 * time.Hour),
		Metodo:  timbratura.MetodoManual,
	}

	created, err := repo.Create(context.Background(), record)
	require.NoError(t, err)

	// Other users and other days are unaffected.
	other := record
	other.UserID = "user-2"
	_, err = repo.Create(context.Background(), other)
	assert.NoError(t, err)

	nextDay := record
	nextDay.Date = day.AddDate(0, 0, 1)
	nextDay.Entrata = nextDay.Date.Add(9 * time.Hour)
	_, err = repo.Create(context.Background(), nextDay)
	assert.NoError(t, err)

	// Closing the record lifts the constraint; it only guards open ones.
	uscita := day.Add(17 * time.Hour)
	created.Uscita = &uscita
	require.NoError(t, repo.Update(context.Background(), created))

	_, err = repo.Create(context.Background(), record)
	assert.NoError(t, err)
}
