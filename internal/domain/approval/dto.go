package approval

import (
	"time"

	"github.com/presenzelab/presenze-backend-go/internal/pkg/validator"
)

type SubmitFerieRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (r *SubmitFerieRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a YYYY-MM-DD date",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a YYYY-MM-DD date",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SubmitGiustificazioneRequest struct {
	AnomalyDate string `json:"anomaly_date"`
	Categoria   string `json:"categoria"`
	Explanation string `json:"explanation"`
}

func (r *SubmitGiustificazioneRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.AnomalyDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "anomaly_date",
			Message: "anomaly_date must be a YYYY-MM-DD date",
		})
	}

	if !validator.IsInSlice(r.Categoria, []string{CategoriaRitardo, CategoriaUscitaMancante, CategoriaAltro}) {
		errs = append(errs, validator.ValidationError{
			Field:   "categoria",
			Message: "categoria must be one of: ritardo, uscita_mancante, altro",
		})
	}

	if validator.IsEmpty(r.Explanation) {
		errs = append(errs, validator.ValidationError{
			Field:   "explanation",
			Message: "explanation is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideRequest struct {
	RequestID string `json:"-"`
	Outcome   string `json:"outcome"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if !validator.IsInSlice(r.Outcome, []string{string(StatoApprovata), string(StatoRifiutata)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "outcome",
			Message: "outcome must be 'approvata' or 'rifiutata'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RequestResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Kind        string     `json:"kind"`
	Stato       string     `json:"stato"`
	StartDate   *string    `json:"start_date,omitempty"`
	EndDate     *string    `json:"end_date,omitempty"`
	Giorni      *int       `json:"giorni,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	AnomalyDate *string    `json:"anomaly_date,omitempty"`
	Categoria   *string    `json:"categoria,omitempty"`
	Explanation *string    `json:"explanation,omitempty"`
	ApprovedBy  *string    `json:"approved_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToResponse(r ApprovalRequest) RequestResponse {
	resp := RequestResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		Kind:        string(r.Kind),
		Stato:       string(r.Stato),
		Giorni:      r.Giorni,
		Reason:      r.Reason,
		Categoria:   r.Categoria,
		Explanation: r.Explanation,
		ApprovedBy:  r.ApprovedBy,
		DecidedAt:   r.DecidedAt,
		CreatedAt:   r.CreatedAt,
	}
	if r.StartDate != nil {
		s := r.StartDate.Format("2006-01-02")
		resp.StartDate = &s
	}
	if r.EndDate != nil {
		s := r.EndDate.Format("2006-01-02")
		resp.EndDate = &s
	}
	if r.AnomalyDate != nil {
		s := r.AnomalyDate.Format("2006-01-02")
		resp.AnomalyDate = &s
	}
	return resp
}

type ListRequestsResponse struct {
	Items []RequestResponse `json:"items"`
	Total int               `json:"total"`
}
