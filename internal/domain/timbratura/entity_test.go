package timbratura

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestState_Transitions(t *testing.T) {
	t.Parallel()

	entrata := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	pausaInizio := entrata.Add(3 * time.Hour)
	pausaFine := pausaInizio.Add(time.Hour)
	uscita := entrata.Add(9 * time.Hour)

	var missing *Timbratura
	assert.Equal(t, StateNotStarted, missing.State())

	record := &Timbratura{Entrata: entrata}
	assert.Equal(t, StateEntered, record.State())

	record.PausaInizio = &pausaInizio
	assert.Equal(t, StateOnBreak, record.State())

	record.PausaFine = &pausaFine
	assert.Equal(t, StateEntered, record.State())

	record.Uscita = &uscita
	assert.Equal(t, StateCompleted, record.State())
}

func TestBreakDuration(t *testing.T) {
	t.Parallel()

	entrata := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	pausaInizio := entrata.Add(3 * time.Hour)
	pausaFine := pausaInizio.Add(45 * time.Minute)
	cutoff := entrata.Add(8 * time.Hour)

	record := &Timbratura{Entrata: entrata}
	assert.Equal(t, time.Duration(0), record.BreakDuration(cutoff), "no break taken")

	record.PausaInizio = &pausaInizio
	assert.Equal(t, 5*time.Hour, record.BreakDuration(cutoff), "open break measured to cutoff")

	record.PausaFine = &pausaFine
	assert.Equal(t, 45*time.Minute, record.BreakDuration(cutoff))
}
