package approval

import (
	"context"
	"time"
)

// ApprovalRequestRepository stores leave requests and justifications.
type ApprovalRequestRepository interface {
	// Create persists a new request in stato in_attesa
	Create(ctx context.Context, req ApprovalRequest) (ApprovalRequest, error)

	// GetByID retrieves a request by ID
	GetByID(ctx context.Context, id string) (ApprovalRequest, error)

	// Decide transitions the request out of in_attesa. The write is
	// conditioned on the stored stato still being in_attesa; when another
	// approver won the race the implementation returns ErrDecisionConflict
	// and leaves the stored decision untouched.
	Decide(ctx context.Context, id string, outcome Stato, approverID string, decidedAt time.Time) (ApprovalRequest, error)

	// ListByUser retrieves a user's own requests, newest first
	ListByUser(ctx context.Context, userID string) ([]ApprovalRequest, error)

	// ListPending retrieves all requests still in_attesa, oldest first
	ListPending(ctx context.Context) ([]ApprovalRequest, error)
}
