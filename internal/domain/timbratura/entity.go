package timbratura

import (
	"time"
)

type Metodo string

const (
	MetodoManual Metodo = "manual"
	MetodoQR     Metodo = "qr"
)

// State of the per-(user, date) punch machine. Derived from which
// timestamps are set, never stored separately.
type State string

const (
	StateNotStarted State = "not_started"
	StateEntered    State = "entered"
	StateOnBreak    State = "on_break"
	StateCompleted  State = "completed"
)

// Timbratura is one day's attendance record for a user: the clock-in,
// the optional break interval and the clock-out, plus the figures
// computed at completion.
type Timbratura struct {
	ID          string
	UserID      string
	Date        time.Time
	Entrata     time.Time
	Uscita      *time.Time
	PausaInizio *time.Time
	PausaFine   *time.Time

	// OreTotali and Straordinario are set when Uscita is recorded,
	// RitardoMinuti at Entrata. OreTotali is nil while the record is open.
	OreTotali     *float64
	Straordinario *float64
	RitardoMinuti int

	Metodo      Metodo
	Commessa    *string
	Approvata   bool
	ApprovataDa *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Timbratura) State() State {
	if t == nil || t.Entrata.IsZero() {
		return StateNotStarted
	}
	if t.Uscita != nil {
		return StateCompleted
	}
	if t.PausaInizio != nil && t.PausaFine == nil {
		return StateOnBreak
	}
	return StateEntered
}

// BreakDuration is the recorded break length, zero when no break was taken.
// An open break is measured up to cutoff (the uscita instant).
func (t *Timbratura) BreakDuration(cutoff time.Time) time.Duration {
	if t.PausaInizio == nil {
		return 0
	}
	end := cutoff
	if t.PausaFine != nil {
		end = *t.PausaFine
	}
	if !end.After(*t.PausaInizio) {
		return 0
	}
	return end.Sub(*t.PausaInizio)
}
