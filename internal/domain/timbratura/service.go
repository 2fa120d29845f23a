package timbratura

import (
	"context"
	"time"
)

// TimbraturaService is the per-user-per-day punch state machine:
// NotStarted -> Entered -> (OnBreak -> Entered)? -> Completed.
type TimbraturaService interface {
	// PunchIn opens today's record. For metodo=qr the token is validated
	// and consumed first; a rejected token rejects the punch.
	PunchIn(ctx context.Context, req PunchInRequest) (TimbraturaResponse, error)

	// PunchBreakStart records pausa_inizio, allowed only from Entered
	PunchBreakStart(ctx context.Context) (TimbraturaResponse, error)

	// PunchBreakEnd records pausa_fine, allowed only from OnBreak
	PunchBreakEnd(ctx context.Context) (TimbraturaResponse, error)

	// PunchOut closes today's record and computes ore_totali. An unclosed
	// break is force-closed at the uscita instant.
	PunchOut(ctx context.Context) (TimbraturaResponse, error)

	// GetMyTimbrature lists the caller's records
	GetMyTimbrature(ctx context.Context, filter ListFilter) (ListResponse, error)

	// Approve flips approvata and records the approver (manager/admin)
	Approve(ctx context.Context, id string) (TimbraturaResponse, error)

	// Delete removes a record (admin)
	Delete(ctx context.Context, id string) error

	// CloseMissingUscita force-closes an open record on a past date at the
	// scheduled uscita. Invoked when a "missing clock-out" justification
	// is approved.
	CloseMissingUscita(ctx context.Context, userID string, date time.Time) error
}
