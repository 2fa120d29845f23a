package timbratura

import (
	"context"
	"fmt"
	"time"

	"github.com/presenzelab/presenze-backend-go/internal/domain/punchtoken"
	"github.com/presenzelab/presenze-backend-go/internal/domain/schedule"
	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/clock"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/database"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/keymutex"
)

type TimbraturaServiceImpl struct {
	timbratura.TimbraturaRepository
	schedule.ShiftRepository
	tokenService punchtoken.TokenService
	transactor   database.Transactor
	calculator   *Calculator
	clock        clock.Clock
	locks        *keymutex.KeyMutex
}

func NewTimbraturaService(
	timbraturaRepository timbratura.TimbraturaRepository,
	shiftRepository schedule.ShiftRepository,
	tokenService punchtoken.TokenService,
	transactor database.Transactor,
	clk clock.Clock,
) timbratura.TimbraturaService {
	return &TimbraturaServiceImpl{
		TimbraturaRepository: timbraturaRepository,
		ShiftRepository:      shiftRepository,
		tokenService:         tokenService,
		transactor:           transactor,
		calculator:           NewCalculator(),
		clock:                clk,
		locks:                keymutex.New(),
	}
}

// dateOf truncates an instant to its calendar day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func lockKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

// PunchIn implements timbratura.TimbraturaService.
func (s *TimbraturaServiceImpl) PunchIn(ctx context.Context, req timbratura.PunchInRequest) (timbratura.TimbraturaResponse, error) {
	if err := req.Validate(); err != nil {
		return timbratura.TimbraturaResponse{}, err
	}

	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}

	// A rejected token rejects the punch before any record is touched.
	if req.Metodo == string(timbratura.MetodoQR) {
		if err := s.tokenService.ValidateAndConsume(ctx, req.TokenID); err != nil {
			return timbratura.TimbraturaResponse{}, err
		}
	}

	now := s.clock.Now()
	date := dateOf(now)

	key := lockKey(id.UserID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	existing, err := s.TimbraturaRepository.GetByUserAndDate(ctx, id.UserID, date)
	if err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to check today's record: %w", err)
	}
	if existing != nil {
		if existing.State() == timbratura.StateCompleted {
			return timbratura.TimbraturaResponse{}, timbratura.ErrAlreadyClockedOut
		}
		return timbratura.TimbraturaResponse{}, timbratura.ErrAlreadyClockedIn
	}

	shift, err := s.ShiftRepository.GetByUserID(ctx, id.UserID)
	if err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to resolve shift: %w", err)
	}

	scheduledEntrata, err := schedule.BoundaryOn(shift.Entrata, now)
	if err != nil {
		return timbratura.TimbraturaResponse{}, err
	}

	record := timbratura.Timbratura{
		UserID:        id.UserID,
		Date:          date,
		Entrata:       now,
		RitardoMinuti: s.calculator.Lateness(now, scheduledEntrata),
		Metodo:        timbratura.Metodo(req.Metodo),
		Commessa:      req.Commessa,
	}

	created, err := s.TimbraturaRepository.Create(ctx, record)
	if err != nil {
		return timbratura.TimbraturaResponse{}, err
	}

	return timbratura.ToResponse(created), nil
}

// PunchBreakStart implements timbratura.TimbraturaService.
func (s *TimbraturaServiceImpl) PunchBreakStart(ctx context.Context) (timbratura.TimbraturaResponse, error) {
	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}

	now := s.clock.Now()
	date := dateOf(now)

	key := lockKey(id.UserID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	record, err := s.openRecord(ctx, id.UserID, date)
	if err != nil {
		return timbratura.TimbraturaResponse{}, err
	}

	switch record.State() {
	case timbratura.StateOnBreak:
		return timbratura.TimbraturaResponse{}, timbratura.ErrBreakAlreadyOpen
	case timbratura.StateEntered:
		if record.PausaInizio != nil {
			// One break interval per record.
			return timbratura.TimbraturaResponse{}, timbratura.ErrBreakAlreadyTaken
		}
	default:
		return timbratura.TimbraturaResponse{}, timbratura.ErrNotClockedIn
	}

	record.PausaInizio = &now
	if err := s.TimbraturaRepository.Update(ctx, *record); err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to update record: %w", err)
	}

	return timbratura.ToResponse(*record), nil
}

// PunchBreakEnd implements timbratura.TimbraturaService.
func (s *TimbraturaServiceImpl) PunchBreakEnd(ctx context.Context) (timbratura.TimbraturaResponse, error) {
	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}

	now := s.clock.Now()
	date := dateOf(now)

	key := lockKey(id.UserID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	record, err := s.openRecord(ctx, id.UserID, date)
	if err != nil {
		return timbratura.TimbraturaResponse{}, err
	}

	if record.State() != timbratura.StateOnBreak {
		return timbratura.TimbraturaResponse{}, timbratura.ErrBreakNotOpen
	}

	// Clock-skew guard: reject a zero or negative break instead of
	// silently recording one.
	if !now.After(*record.PausaInizio) {
		return timbratura.TimbraturaResponse{}, timbratura.ErrBreakEndNotAfter
	}

	record.PausaFine = &now
	if err := s.TimbraturaRepository.Update(ctx, *record); err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to update record: %w", err)
	}

	return timbratura.ToResponse(*record), nil
}

// PunchOut implements timbratura.TimbraturaService.
func (s *TimbraturaServiceImpl) PunchOut(ctx context.Context) (timbratura.TimbraturaResponse, error) {
	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}

	now := s.clock.Now()
	date := dateOf(now)

	key := lockKey(id.UserID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	record, err := s.openRecord(ctx, id.UserID, date)
	if err != nil {
		return timbratura.TimbraturaResponse{}, err
	}

	return s.closeRecord(ctx, record, now)
}

// closeRecord finalizes an open record at uscita. The caller holds the
// per-key lock.
func (s *TimbraturaServiceImpl) closeRecord(ctx context.Context, record *timbratura.Timbratura, uscita time.Time) (timbratura.TimbraturaResponse, error) {
	if !uscita.After(record.Entrata) {
		return timbratura.TimbraturaResponse{}, timbratura.ErrUscitaBeforeEntrata
	}

	shift, err := s.ShiftRepository.GetByUserID(ctx, record.UserID)
	if err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to resolve shift: %w", err)
	}

	figures, err := s.calculator.Complete(*record, uscita, shift)
	if err != nil {
		return timbratura.TimbraturaResponse{}, err
	}

	// Force-close an unclosed break at the uscita instant so ore_totali
	// stays well-defined.
	if record.State() == timbratura.StateOnBreak {
		record.PausaFine = &uscita
	}

	record.Uscita = &uscita
	record.OreTotali = &figures.OreTotali
	record.Straordinario = &figures.Straordinario

	if err := s.TimbraturaRepository.Update(ctx, *record); err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to update record: %w", err)
	}

	return timbratura.ToResponse(*record), nil
}

func (s *TimbraturaServiceImpl) openRecord(ctx context.Context, userID string, date time.Time) (*timbratura.Timbratura, error) {
	record, err := s.TimbraturaRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's record: %w", err)
	}
	if record == nil {
		return nil, timbratura.ErrNotClockedIn
	}
	if record.State() == timbratura.StateCompleted {
		return nil, timbratura.ErrAlreadyClockedOut
	}
	return record, nil
}

// GetMyTimbrature implements timbratura.TimbraturaService.
func (s *TimbraturaServiceImpl) GetMyTimbrature(ctx context.Context, filter timbratura.ListFilter) (timbratura.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return timbratura.ListResponse{}, err
	}

	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return timbratura.ListResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}

	now := s.clock.Now()
	from := dateOf(now).AddDate(0, -1, 0)
	to := dateOf(now).AddDate(0, 0, 1)
	if filter.From != "" {
		from, _ = time.Parse("2006-01-02", filter.From)
	}
	if filter.To != "" {
		to, _ = time.Parse("2006-01-02", filter.To)
	}

	records, err := s.TimbraturaRepository.ListByUser(ctx, id.UserID, from, to)
	if err != nil {
		return timbratura.ListResponse{}, fmt.Errorf("failed to list records: %w", err)
	}

	resp := timbratura.ListResponse{Items: make([]timbratura.TimbraturaResponse, 0, len(records))}
	for _, r := range records {
		resp.Items = append(resp.Items, timbratura.ToResponse(r))
	}
	resp.Total = len(resp.Items)
	return resp, nil
}

// Approve implements timbratura.TimbraturaService.
func (s *TimbraturaServiceImpl) Approve(ctx context.Context, recordID string) (timbratura.TimbraturaResponse, error) {
	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return timbratura.TimbraturaResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}
	if !user.HasPermission(id.Role, user.PermissionPunchApprove) {
		return timbratura.TimbraturaResponse{}, user.ErrManagerAccessRequired
	}

	var record timbratura.Timbratura
	// Read and flip in one transaction so two approvers cannot both pass
	// the already-approved check.
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err = s.TimbraturaRepository.GetByID(ctx, recordID)
		if err != nil {
			return err
		}
		if record.UserID == id.UserID {
			return timbratura.ErrOwnRecord
		}
		if record.State() != timbratura.StateCompleted {
			return timbratura.ErrNotCompleted
		}
		if record.Approvata {
			return timbratura.ErrAlreadyApproved
		}

		record.Approvata = true
		record.ApprovataDa = &id.UserID

		if err := s.TimbraturaRepository.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}
		return nil
	})
	if err != nil {
		return timbratura.TimbraturaResponse{}, err
	}

	return timbratura.ToResponse(record), nil
}

// Delete implements timbratura.TimbraturaService.
func (s *TimbraturaServiceImpl) Delete(ctx context.Context, recordID string) error {
	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return fmt.Errorf("failed to extract identity from context: %w", err)
	}
	if !user.HasPermission(id.Role, user.PermissionPunchDelete) {
		return user.ErrAdminAccessRequired
	}

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.TimbraturaRepository.GetByID(ctx, recordID); err != nil {
			return err
		}
		return s.TimbraturaRepository.Delete(ctx, recordID)
	})
}

// CloseMissingUscita implements timbratura.TimbraturaService.
func (s *TimbraturaServiceImpl) CloseMissingUscita(ctx context.Context, userID string, date time.Time) error {
	date = dateOf(date)

	key := lockKey(userID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	record, err := s.openRecord(ctx, userID, date)
	if err != nil {
		return err
	}

	shift, err := s.ShiftRepository.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve shift: %w", err)
	}

	uscita, err := schedule.BoundaryOn(shift.Uscita, date)
	if err != nil {
		return err
	}
	// Clocked in after the scheduled end of shift: nothing sensible to
	// backfill, leave the record for manual correction.
	if !uscita.After(record.Entrata) {
		return timbratura.ErrUscitaBeforeEntrata
	}

	_, err = s.closeRecord(ctx, record, uscita)
	return err
}
