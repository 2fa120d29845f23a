package approval

import "time"

type Kind string

const (
	KindFerie           Kind = "ferie"
	KindGiustificazione Kind = "giustificazione"
)

type Stato string

const (
	StatoInAttesa  Stato = "in_attesa"
	StatoApprovata Stato = "approvata"
	StatoRifiutata Stato = "rifiutata"
)

// Terminal reports whether no further transition is allowed.
func (s Stato) Terminal() bool {
	return s == StatoApprovata || s == StatoRifiutata
}

// Justification categories for attendance anomalies.
const (
	CategoriaRitardo        = "ritardo"
	CategoriaUscitaMancante = "uscita_mancante"
	CategoriaAltro          = "altro"
)

// ApprovalRequest is the shared shape for leave requests (ferie) and
// anomaly justifications (giustificazioni). Kind-specific fields are
// pointers; exactly the set belonging to Kind is populated.
type ApprovalRequest struct {
	ID     string
	UserID string
	Kind   Kind
	Stato  Stato

	// Ferie payload
	StartDate *time.Time
	EndDate   *time.Time
	Giorni    *int
	Reason    string

	// Giustificazione payload
	AnomalyDate *time.Time
	Categoria   *string
	Explanation *string

	ApprovedBy *string
	DecidedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
