package timbratura

import (
	"math"
	"time"

	"github.com/presenzelab/presenze-backend-go/internal/domain/schedule"
	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
)

// Calculator derives worked hours, overtime and lateness from raw punch
// times and a scheduled shift. All methods are pure.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// roundHalfUp rounds hours to one decimal, half away from zero, to match
// display granularity.
func roundHalfUp(hours float64) float64 {
	return math.Floor(hours*10+0.5) / 10
}

// WorkedHours is (uscita - entrata) - breakDuration, floored at zero and
// rounded to 0.1h. Uscita must be strictly after entrata; overnight
// records are rejected upstream.
func (c *Calculator) WorkedHours(entrata, uscita time.Time, breakDuration time.Duration) (float64, error) {
	if !uscita.After(entrata) {
		return 0, timbratura.ErrUscitaBeforeEntrata
	}
	worked := uscita.Sub(entrata) - breakDuration
	if worked < 0 {
		worked = 0
	}
	return roundHalfUp(worked.Hours()), nil
}

// Overtime is the worked time beyond the scheduled hours, never negative.
func (c *Calculator) Overtime(workedHours, scheduledHours float64) float64 {
	overtime := roundHalfUp(workedHours - scheduledHours)
	if overtime < 0 {
		return 0
	}
	return overtime
}

// Lateness is the whole minutes between the scheduled and the actual
// entrata, never negative. The raw value is always recorded; the
// tolerance threshold only governs flagging.
func (c *Calculator) Lateness(entrata, scheduledEntrata time.Time) int {
	if !entrata.After(scheduledEntrata) {
		return 0
	}
	return int(entrata.Sub(scheduledEntrata).Minutes())
}

// Figures are the computed fields of a completed record.
type Figures struct {
	OreTotali     float64
	Straordinario float64
}

// Complete computes the figures for a record being closed at uscita,
// against the user's shift. An open break is measured up to uscita.
func (c *Calculator) Complete(t timbratura.Timbratura, uscita time.Time, shift schedule.Shift) (Figures, error) {
	worked, err := c.WorkedHours(t.Entrata, uscita, t.BreakDuration(uscita))
	if err != nil {
		return Figures{}, err
	}

	scheduled, err := shift.ScheduledHours()
	if err != nil {
		return Figures{}, err
	}

	return Figures{
		OreTotali:     worked,
		Straordinario: c.Overtime(worked, scheduled),
	}, nil
}
