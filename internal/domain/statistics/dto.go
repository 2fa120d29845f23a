package statistics

import (
	"github.com/presenzelab/presenze-backend-go/internal/pkg/validator"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

type StatsRequest struct {
	// UserID defaults to the caller; reading another user's statistics
	// requires the view_all capability
	UserID string `json:"user_id,omitempty"`
	Period string `json:"period"`
	// Anchor is any date inside the requested period
	Anchor string `json:"anchor"`
}

func (r *StatsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Period, []string{PeriodWeek, PeriodMonth}) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be 'week' or 'month'",
		})
	}

	if _, ok := validator.IsValidDate(r.Anchor); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "anchor",
			Message: "anchor must be a YYYY-MM-DD date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RollupRequest struct {
	UserID  string `json:"user_id,omitempty"`
	From    string `json:"from"`
	To      string `json:"to"`
	GroupBy string `json:"group_by"`
}

func (r *RollupRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.From); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be a YYYY-MM-DD date",
		})
	}
	if _, ok := validator.IsValidDate(r.To); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be a YYYY-MM-DD date",
		})
	}
	if !validator.IsInSlice(r.GroupBy, []string{PeriodWeek, PeriodMonth}) {
		errs = append(errs, validator.ValidationError{
			Field:   "group_by",
			Message: "group_by must be 'week' or 'month'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PeriodStats are the rolled-up figures for one user over one period.
type PeriodStats struct {
	UserID         string  `json:"user_id"`
	PeriodStart    string  `json:"period_start"`
	PeriodEnd      string  `json:"period_end"`
	TotaleOre      float64 `json:"totale_ore"`
	TotaleDays     int     `json:"totale_giorni"`
	Straordinari   float64 `json:"straordinari"`
	Ritardi        int     `json:"ritardi"`
	MediaOreGiorno float64 `json:"media_ore_giorno"`
}

// RollupBucket is one week's or month's stats keyed by "2024-W03" or
// "2024-01".
type RollupBucket struct {
	Key   string      `json:"key"`
	Stats PeriodStats `json:"stats"`
}
