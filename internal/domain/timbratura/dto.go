package timbratura

import (
	"time"

	"github.com/presenzelab/presenze-backend-go/internal/pkg/validator"
)

type PunchInRequest struct {
	Metodo   string  `json:"metodo"`
	Commessa *string `json:"commessa,omitempty"`
	TokenID  string  `json:"token_id,omitempty"`
}

func (r *PunchInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Metodo == "" {
		r.Metodo = string(MetodoManual)
	}
	if !validator.IsInSlice(r.Metodo, []string{string(MetodoManual), string(MetodoQR)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "metodo",
			Message: "metodo must be 'manual' or 'qr'",
		})
	}

	if r.Metodo == string(MetodoQR) && validator.IsEmpty(r.TokenID) {
		errs = append(errs, validator.ValidationError{
			Field:   "token_id",
			Message: "token_id is required for qr punches",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Limit int    `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(f.From) {
		if _, ok := validator.IsValidDate(f.From); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be a YYYY-MM-DD date",
			})
		}
	}
	if !validator.IsEmpty(f.To) {
		if _, ok := validator.IsValidDate(f.To); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be a YYYY-MM-DD date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TimbraturaResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Date          string     `json:"date"`
	Entrata       time.Time  `json:"entrata"`
	Uscita        *time.Time `json:"uscita,omitempty"`
	PausaInizio   *time.Time `json:"pausa_inizio,omitempty"`
	PausaFine     *time.Time `json:"pausa_fine,omitempty"`
	OreTotali     *float64   `json:"ore_totali,omitempty"`
	Straordinario *float64   `json:"straordinario,omitempty"`
	RitardoMinuti int        `json:"ritardo_minuti"`
	Metodo        string     `json:"metodo"`
	Commessa      *string    `json:"commessa,omitempty"`
	Approvata     bool       `json:"approvata"`
	ApprovataDa   *string    `json:"approvata_da,omitempty"`
	Stato         string     `json:"stato"`
}

func ToResponse(t Timbratura) TimbraturaResponse {
	return TimbraturaResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		Date:          t.Date.Format("2006-01-02"),
		Entrata:       t.Entrata,
		Uscita:        t.Uscita,
		PausaInizio:   t.PausaInizio,
		PausaFine:     t.PausaFine,
		OreTotali:     t.OreTotali,
		Straordinario: t.Straordinario,
		RitardoMinuti: t.RitardoMinuti,
		Metodo:        string(t.Metodo),
		Commessa:      t.Commessa,
		Approvata:     t.Approvata,
		ApprovataDa:   t.ApprovataDa,
		Stato:         string(t.State()),
	}
}

type ListResponse struct {
	Items []TimbraturaResponse `json:"items"`
	Total int                  `json:"total"`
}
