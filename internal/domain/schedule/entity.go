package schedule

import (
	"fmt"
	"time"
)

// Shift is a user's scheduled working day, consumed as configuration from
// the HR system. Boundaries are "HH:MM" strings on the record's calendar
// day; overnight shifts are not supported.
type Shift struct {
	UserID           string
	Entrata          string
	Uscita           string
	PausaMinuti      int
	TolleranzaMinuti int
}

const (
	DefaultEntrata          = "09:00"
	DefaultUscita           = "18:00"
	DefaultPausaMinuti      = 60
	DefaultTolleranzaMinuti = 5
)

// Default is the shift applied when no per-user schedule is configured.
// It yields 8.0 scheduled hours.
func Default() Shift {
	return Shift{
		Entrata:          DefaultEntrata,
		Uscita:           DefaultUscita,
		PausaMinuti:      DefaultPausaMinuti,
		TolleranzaMinuti: DefaultTolleranzaMinuti,
	}
}

// BoundaryOn resolves an "HH:MM" boundary onto a calendar day.
func BoundaryOn(boundary string, day time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", boundary)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid shift boundary %q: %w", boundary, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// ScheduledHours is the shift length net of the scheduled break.
func (s Shift) ScheduledHours() (float64, error) {
	start, err := time.Parse("15:04", s.Entrata)
	if err != nil {
		return 0, fmt.Errorf("invalid entrata %q: %w", s.Entrata, err)
	}
	end, err := time.Parse("15:04", s.Uscita)
	if err != nil {
		return 0, fmt.Errorf("invalid uscita %q: %w", s.Uscita, err)
	}
	working := end.Sub(start) - time.Duration(s.PausaMinuti)*time.Minute
	if working < 0 {
		working = 0
	}
	return working.Hours(), nil
}
