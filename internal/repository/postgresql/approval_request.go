package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/presenzelab/presenze-backend-go/internal/domain/approval"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/database"
)

type approvalRequestRepository struct {
	db *database.DB
}

func NewApprovalRequestRepository(db *database.DB) approval.ApprovalRequestRepository {
	return &approvalRequestRepository{db: db}
}

const approvalColumns = `
	id, user_id, kind, stato, start_date, end_date, giorni, reason,
	anomaly_date, categoria, explanation, approved_by, decided_at,
	created_at, updated_at
`

func scanApprovalRequest(row pgx.Row) (approval.ApprovalRequest, error) {
	var a approval.ApprovalRequest
	err := row.Scan(
		&a.ID, &a.UserID, &a.Kind, &a.Stato, &a.StartDate, &a.EndDate, &a.Giorni, &a.Reason,
		&a.AnomalyDate, &a.Categoria, &a.Explanation, &a.ApprovedBy, &a.DecidedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements approval.ApprovalRequestRepository.
func (r *approvalRequestRepository) Create(ctx context.Context, req approval.ApprovalRequest) (approval.ApprovalRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO approval_requests (
			id, user_id, kind, stato, start_date, end_date, giorni, reason,
			anomaly_date, categoria, explanation
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID,
		req.UserID,
		req.Kind,
		req.Stato,
		req.StartDate,
		req.EndDate,
		req.Giorni,
		req.Reason,
		req.AnomalyDate,
		req.Categoria,
		req.Explanation,
	).Scan(&req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return approval.ApprovalRequest{}, fmt.Errorf("failed to create approval request: %w", err)
	}
	return req, nil
}

// GetByID implements approval.ApprovalRequestRepository.
func (r *approvalRequestRepository) GetByID(ctx context.Context, id string) (approval.ApprovalRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE id = $1`

	req, err := scanApprovalRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.ApprovalRequest{}, approval.ErrRequestNotFound
		}
		return approval.ApprovalRequest{}, fmt.Errorf("failed to get approval request: %w", err)
	}
	return req, nil
}

// Decide implements approval.ApprovalRequestRepository. The UPDATE is
// conditioned on stato = 'in_attesa' so a concurrent decision cannot be
// overwritten; the loser sees no matched row.
func (r *approvalRequestRepository) Decide(ctx context.Context, id string, outcome approval.Stato, approverID string, decidedAt time.Time) (approval.ApprovalRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE approval_requests
		SET stato = $2,
			approved_by = $3,
			decided_at = $4,
			updated_at = NOW()
		WHERE id = $1 AND stato = 'in_attesa'
		RETURNING ` + approvalColumns

	req, err := scanApprovalRequest(q.QueryRow(ctx, query, id, outcome, approverID, decidedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the request is gone or someone decided it first.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return approval.ApprovalRequest{}, getErr
			}
			return approval.ApprovalRequest{}, approval.ErrDecisionConflict
		}
		return approval.ApprovalRequest{}, fmt.Errorf("failed to decide approval request: %w", err)
	}
	return req, nil
}

// ListByUser implements approval.ApprovalRequestRepository.
func (r *approvalRequestRepository) ListByUser(ctx context.Context, userID string) ([]approval.ApprovalRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + approvalColumns + `
		FROM approval_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval requests by user: %w", err)
	}
	defer rows.Close()

	return collectApprovalRequests(rows)
}

// ListPending implements approval.ApprovalRequestRepository.
func (r *approvalRequestRepository) ListPending(ctx context.Context) ([]approval.ApprovalRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + approvalColumns + `
		FROM approval_requests
		WHERE stato = 'in_attesa'
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approval requests: %w", err)
	}
	defer rows.Close()

	return collectApprovalRequests(rows)
}

func collectApprovalRequests(rows pgx.Rows) ([]approval.ApprovalRequest, error) {
	var result []approval.ApprovalRequest
	for rows.Next() {
		req, err := scanApprovalRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval request: %w", err)
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate approval requests: %w", err)
	}
	return result, nil
}
