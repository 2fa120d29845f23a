package approval

import "context"

// ApprovalService is the pending/approved/rejected workflow shared by
// ferie and giustificazioni. Both outcomes are terminal.
type ApprovalService interface {
	// SubmitFerie files a leave request for the caller; giorni is the
	// inclusive day count of the range
	SubmitFerie(ctx context.Context, req SubmitFerieRequest) (RequestResponse, error)

	// SubmitGiustificazione files an anomaly justification for the caller
	SubmitGiustificazione(ctx context.Context, req SubmitGiustificazioneRequest) (RequestResponse, error)

	// Decide approves or rejects a pending request (manager/admin)
	Decide(ctx context.Context, req DecideRequest) (RequestResponse, error)

	// GetMyRequests lists the caller's requests
	GetMyRequests(ctx context.Context) (ListRequestsResponse, error)

	// GetPendingRequests lists requests awaiting a decision (manager/admin)
	GetPendingRequests(ctx context.Context) (ListRequestsResponse, error)
}
