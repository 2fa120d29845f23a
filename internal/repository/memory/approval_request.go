package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/presenzelab/presenze-backend-go/internal/domain/approval"
)

type ApprovalRequestRepository struct {
	mu       sync.Mutex
	requests map[string]approval.ApprovalRequest
}

func NewApprovalRequestRepository() *ApprovalRequestRepository {
	return &ApprovalRequestRepository{requests: make(map[string]approval.ApprovalRequest)}
}

func (r *ApprovalRequestRepository) Create(_ context.Context, req approval.ApprovalRequest) (approval.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	r.requests[req.ID] = req
	return req, nil
}

func (r *ApprovalRequestRepository) GetByID(_ context.Context, id string) (approval.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return approval.ApprovalRequest{}, approval.ErrRequestNotFound
	}
	return req, nil
}

// Decide applies the optimistic state condition under the mutex: only a
// request still in_attesa transitions, the loser of a race gets
// ErrDecisionConflict.
func (r *ApprovalRequestRepository) Decide(_ context.Context, id string, outcome approval.Stato, approverID string, decidedAt time.Time) (approval.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return approval.ApprovalRequest{}, approval.ErrRequestNotFound
	}
	if req.Stato != approval.StatoInAttesa {
		return approval.ApprovalRequest{}, approval.ErrDecisionConflict
	}

	req.Stato = outcome
	req.ApprovedBy = &approverID
	req.DecidedAt = &decidedAt
	req.UpdatedAt = time.Now().UTC()
	r.requests[id] = req
	return req, nil
}

func (r *ApprovalRequestRepository) ListByUser(_ context.Context, userID string) ([]approval.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []approval.ApprovalRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			result = append(result, req)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *ApprovalRequestRepository) ListPending(_ context.Context) ([]approval.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []approval.ApprovalRequest
	for _, req := range r.requests {
		if req.Stato == approval.StatoInAttesa {
			result = append(result, req)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
