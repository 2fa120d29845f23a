package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/presenzelab/presenze-backend-go/internal/domain/approval"
	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/clock"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
)

type ApprovalServiceImpl struct {
	approval.ApprovalRequestRepository
	timbraturaService timbratura.TimbraturaService
	clock             clock.Clock
}

func NewApprovalService(
	repository approval.ApprovalRequestRepository,
	timbraturaService timbratura.TimbraturaService,
	clk clock.Clock,
) approval.ApprovalService {
	return &ApprovalServiceImpl{
		ApprovalRequestRepository: repository,
		timbraturaService:         timbraturaService,
		clock:                     clk,
	}
}

// inclusiveDays counts calendar days in [start, end], weekends included.
// Calendar policy is the approver's call, not computed here.
func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// SubmitFerie implements approval.ApprovalService.
func (s *ApprovalServiceImpl) SubmitFerie(ctx context.Context, req approval.SubmitFerieRequest) (approval.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.RequestResponse{}, err
	}

	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return approval.RequestResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}
	if !user.HasPermission(id.Role, user.PermissionRequestCreate) {
		return approval.RequestResponse{}, approval.ErrCannotSubmit
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	giorni := inclusiveDays(start, end)

	request := approval.ApprovalRequest{
		ID:        uuid.NewString(),
		UserID:    id.UserID,
		Kind:      approval.KindFerie,
		Stato:     approval.StatoInAttesa,
		StartDate: &start,
		EndDate:   &end,
		Giorni:    &giorni,
		Reason:    req.Reason,
	}

	created, err := s.ApprovalRequestRepository.Create(ctx, request)
	if err != nil {
		return approval.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return approval.ToResponse(created), nil
}

// SubmitGiustificazione implements approval.ApprovalService.
func (s *ApprovalServiceImpl) SubmitGiustificazione(ctx context.Context, req approval.SubmitGiustificazioneRequest) (approval.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.RequestResponse{}, err
	}

	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return approval.RequestResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}
	if !user.HasPermission(id.Role, user.PermissionRequestCreate) {
		return approval.RequestResponse{}, approval.ErrCannotSubmit
	}

	anomalyDate, _ := time.Parse("2006-01-02", req.AnomalyDate)
	categoria := req.Categoria
	explanation := req.Explanation

	request := approval.ApprovalRequest{
		ID:          uuid.NewString(),
		UserID:      id.UserID,
		Kind:        approval.KindGiustificazione,
		Stato:       approval.StatoInAttesa,
		AnomalyDate: &anomalyDate,
		Categoria:   &categoria,
		Explanation: &explanation,
	}

	created, err := s.ApprovalRequestRepository.Create(ctx, request)
	if err != nil {
		return approval.RequestResponse{}, fmt.Errorf("failed to create justification: %w", err)
	}

	return approval.ToResponse(created), nil
}

// Decide implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Decide(ctx context.Context, req approval.DecideRequest) (approval.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.RequestResponse{}, err
	}

	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return approval.RequestResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}
	if !user.HasPermission(id.Role, user.PermissionRequestDecide) {
		return approval.RequestResponse{}, approval.ErrNotApprover
	}

	request, err := s.ApprovalRequestRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return approval.RequestResponse{}, err
	}
	if request.UserID == id.UserID {
		return approval.RequestResponse{}, approval.ErrOwnRequest
	}
	if request.Stato.Terminal() {
		return approval.RequestResponse{}, approval.ErrAlreadyDecided
	}

	outcome := approval.Stato(req.Outcome)

	// The repository conditions the write on stato still being in_attesa;
	// a concurrent approver losing the race gets ErrDecisionConflict.
	decided, err := s.ApprovalRequestRepository.Decide(ctx, request.ID, outcome, id.UserID, s.clock.Now())
	if err != nil {
		if errors.Is(err, approval.ErrDecisionConflict) {
			return approval.RequestResponse{}, approval.ErrAlreadyDecided
		}
		return approval.RequestResponse{}, err
	}

	// An approved missing-clock-out justification backfills the uscita on
	// the anomaly date. The decision stands even when the amendment fails.
	if outcome == approval.StatoApprovata && decided.Kind == approval.KindGiustificazione &&
		decided.Categoria != nil && *decided.Categoria == approval.CategoriaUscitaMancante &&
		decided.AnomalyDate != nil {
		if err := s.timbraturaService.CloseMissingUscita(ctx, decided.UserID, *decided.AnomalyDate); err != nil {
			slog.Warn("failed to amend attendance record from approved justification",
				"request_id", decided.ID,
				"user_id", decided.UserID,
				"error", err,
			)
		}
	}

	return approval.ToResponse(decided), nil
}

// GetMyRequests implements approval.ApprovalService.
func (s *ApprovalServiceImpl) GetMyRequests(ctx context.Context) (approval.ListRequestsResponse, error) {
	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return approval.ListRequestsResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}

	requests, err := s.ApprovalRequestRepository.ListByUser(ctx, id.UserID)
	if err != nil {
		return approval.ListRequestsResponse{}, fmt.Errorf("failed to list requests: %w", err)
	}

	return toListResponse(requests), nil
}

// GetPendingRequests implements approval.ApprovalService.
func (s *ApprovalServiceImpl) GetPendingRequests(ctx context.Context) (approval.ListRequestsResponse, error) {
	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return approval.ListRequestsResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}
	if !user.HasPermission(id.Role, user.PermissionRequestViewAll) {
		return approval.ListRequestsResponse{}, approval.ErrNotApprover
	}

	requests, err := s.ApprovalRequestRepository.ListPending(ctx)
	if err != nil {
		return approval.ListRequestsResponse{}, fmt.Errorf("failed to list pending requests: %w", err)
	}

	return toListResponse(requests), nil
}

func toListResponse(requests []approval.ApprovalRequest) approval.ListRequestsResponse {
	resp := approval.ListRequestsResponse{Items: make([]approval.RequestResponse, 0, len(requests))}
	for _, r := range requests {
		resp.Items = append(resp.Items, approval.ToResponse(r))
	}
	resp.Total = len(resp.Items)
	return resp
}
