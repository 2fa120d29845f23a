package timbratura

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presenzelab/presenze-backend-go/internal/domain/punchtoken"
	"github.com/presenzelab/presenze-backend-go/internal/domain/schedule"
	domain "github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/clock"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
	"github.com/presenzelab/presenze-backend-go/internal/repository/memory"
	tokensvc "github.com/presenzelab/presenze-backend-go/internal/service/token"
)

type fixture struct {
	service    domain.TimbraturaService
	records    *memory.TimbraturaRepository
	shifts     *memory.ShiftRepository
	tokens     *memory.PunchTokenRepository
	clock      *clock.Fixed
	ctx        context.Context
	managerCtx context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := clock.NewFixed(time.Date(2024, time.January, 15, 8, 30, 0, 0, time.UTC))
	records := memory.NewTimbraturaRepository()
	shifts := memory.NewShiftRepository()
	tokens := memory.NewPunchTokenRepository()

	svc := NewTimbraturaService(records, shifts, tokensvc.NewTokenService(tokens, clk, 0), memory.NewTransactor(), clk)

	ctx := identity.WithIdentity(context.Background(), identity.Identity{
		UserID: "user-1",
		Badge:  "0001-0001",
		Role:   user.RoleDipendente,
	})
	managerCtx := identity.WithIdentity(context.Background(), identity.Identity{
		UserID: "manager-1",
		Role:   user.RoleManager,
	})

	return &fixture{
		service:    svc,
		records:    records,
		shifts:     shifts,
		tokens:     tokens,
		clock:      clk,
		ctx:        ctx,
		managerCtx: managerCtx,
	}
}

func TestPunchIn_CreatesOpenRecordWithLateness(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	// Default shift starts at 09:00; punching at 08:30 is not late.
	resp, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})

	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "2024-01-15", resp.Date)
	assert.Equal(t, 0, resp.RitardoMinuti)
	assert.Equal(t, string(domain.MetodoManual), resp.Metodo)
	assert.Equal(t, string(domain.StateEntered), resp.Stato)
	assert.Nil(t, resp.Uscita)
}

func TestPunchIn_RecordsLatenessAgainstShift(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.shifts.Put(schedule.Shift{
		UserID:           "user-1",
		Entrata:          "08:00",
		Uscita:           "17:00",
		PausaMinuti:      60,
		TolleranzaMinuti: 5,
	})

	f.clock.Instant = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	resp, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.RitardoMinuti)
}

func TestPunchIn_TwiceSameDayRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	_, err = f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	assert.ErrorIs(t, err, domain.ErrAlreadyClockedIn)
}

func TestPunchIn_AfterCompletedDayRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	f.clock.Advance(8 * time.Hour)
	_, err = f.service.PunchOut(f.ctx)
	require.NoError(t, err)

	_, err = f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	assert.ErrorIs(t, err, domain.ErrAlreadyClockedOut)
}

func TestPunchIn_QRRequiresValidToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{Metodo: string(domain.MetodoQR), TokenID: "no-such-token"})
	assert.ErrorIs(t, err, punchtoken.ErrTokenNotFound)

	// A rejected token must not leave a record behind.
	record, err := f.records.GetByUserAndDate(context.Background(), "user-1", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestPunchIn_QRConsumesToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tokenSvc := tokensvc.NewTokenService(f.tokens, f.clock, 0)
	payload, err := tokenSvc.Issue(context.Background())
	require.NoError(t, err)

	resp, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{Metodo: string(domain.MetodoQR), TokenID: payload.Token})
	require.NoError(t, err)
	assert.Equal(t, string(domain.MetodoQR), resp.Metodo)

	// Second use of the same token fails even for another user.
	otherCtx := identity.WithIdentity(context.Background(), identity.Identity{UserID: "user-2", Role: user.RoleDipendente})
	_, err = f.service.PunchIn(otherCtx, domain.PunchInRequest{Metodo: string(domain.MetodoQR), TokenID: payload.Token})
	assert.ErrorIs(t, err, punchtoken.ErrTokenAlreadyUsed)
}

func TestBreak_FullCycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	f.clock.Advance(4 * time.Hour)
	resp, err := f.service.PunchBreakStart(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StateOnBreak), resp.Stato)

	f.clock.Advance(time.Hour)
	resp, err = f.service.PunchBreakEnd(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StateEntered), resp.Stato)
	require.NotNil(t, resp.PausaFine)
	assert.Equal(t, time.Hour, resp.PausaFine.Sub(*resp.PausaInizio))
}

func TestBreak_Guards(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.PunchBreakStart(f.ctx)
	assert.ErrorIs(t, err, domain.ErrNotClockedIn, "break before punch-in")

	_, err = f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	_, err = f.service.PunchBreakEnd(f.ctx)
	assert.ErrorIs(t, err, domain.ErrBreakNotOpen, "break end without an open break")

	f.clock.Advance(2 * time.Hour)
	_, err = f.service.PunchBreakStart(f.ctx)
	require.NoError(t, err)

	_, err = f.service.PunchBreakStart(f.ctx)
	assert.ErrorIs(t, err, domain.ErrBreakAlreadyOpen, "double break start")

	_, err = f.service.PunchBreakEnd(f.ctx)
	assert.ErrorIs(t, err, domain.ErrBreakEndNotAfter, "break end at the same instant")

	f.clock.Advance(30 * time.Minute)
	_, err = f.service.PunchBreakEnd(f.ctx)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.service.PunchBreakStart(f.ctx)
	assert.ErrorIs(t, err, domain.ErrBreakAlreadyTaken, "second break interval")
}

func TestPunchOut_ComputesFigures(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.shifts.Put(schedule.Shift{
		UserID:           "user-1",
		Entrata:          "08:30",
		Uscita:           "17:30",
		PausaMinuti:      60,
		TolleranzaMinuti: 5,
	})

	_, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	f.clock.Instant = time.Date(2024, time.January, 15, 12, 30, 0, 0, time.UTC)
	_, err = f.service.PunchBreakStart(f.ctx)
	require.NoError(t, err)

	f.clock.Instant = time.Date(2024, time.January, 15, 13, 30, 0, 0, time.UTC)
	_, err = f.service.PunchBreakEnd(f.ctx)
	require.NoError(t, err)

	f.clock.Instant = time.Date(2024, time.January, 15, 17, 30, 0, 0, time.UTC)
	resp, err := f.service.PunchOut(f.ctx)

	require.NoError(t, err)
	require.NotNil(t, resp.OreTotali)
	require.NotNil(t, resp.Straordinario)
	assert.Equal(t, 8.0, *resp.OreTotali)
	assert.Equal(t, 0.0, *resp.Straordinario)
	assert.Equal(t, string(domain.StateCompleted), resp.Stato)
}

func TestPunchOut_ForceClosesOpenBreak(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	f.clock.Advance(7 * time.Hour)
	_, err = f.service.PunchBreakStart(f.ctx)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	resp, err := f.service.PunchOut(f.ctx)

	require.NoError(t, err)
	require.NotNil(t, resp.PausaFine)
	assert.True(t, resp.PausaFine.Equal(*resp.Uscita), "open break closed at the uscita instant")
	require.NotNil(t, resp.OreTotali)
	assert.Equal(t, 7.0, *resp.OreTotali)
}

func TestPunchOut_Guards(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.PunchOut(f.ctx)
	assert.ErrorIs(t, err, domain.ErrNotClockedIn)

	_, err = f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.service.PunchOut(f.ctx)
	require.NoError(t, err)

	_, err = f.service.PunchOut(f.ctx)
	assert.ErrorIs(t, err, domain.ErrAlreadyClockedOut)
}

func TestGetMyTimbrature_ReturnsOwnRecordsOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	otherCtx := identity.WithIdentity(context.Background(), identity.Identity{UserID: "user-2", Role: user.RoleDipendente})
	_, err = f.service.PunchIn(otherCtx, domain.PunchInRequest{})
	require.NoError(t, err)

	list, err := f.service.GetMyTimbrature(f.ctx, domain.ListFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "user-1", list.Items[0].UserID)
}

func TestApprove_RequiresManagerAndCompletion(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	_, err = f.service.Approve(f.ctx, created.ID)
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	_, err = f.service.Approve(f.managerCtx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotCompleted, "open records cannot be approved")

	f.clock.Advance(8 * time.Hour)
	_, err = f.service.PunchOut(f.ctx)
	require.NoError(t, err)

	resp, err := f.service.Approve(f.managerCtx, created.ID)
	require.NoError(t, err)
	assert.True(t, resp.Approvata)
	require.NotNil(t, resp.ApprovataDa)
	assert.Equal(t, "manager-1", *resp.ApprovataDa)

	_, err = f.service.Approve(f.managerCtx, created.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyApproved)
}

func TestApprove_OwnRecordRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created, err := f.service.PunchIn(f.managerCtx, domain.PunchInRequest{})
	require.NoError(t, err)

	f.clock.Advance(8 * time.Hour)
	_, err = f.service.PunchOut(f.managerCtx)
	require.NoError(t, err)

	_, err = f.service.Approve(f.managerCtx, created.ID)
	assert.ErrorIs(t, err, domain.ErrOwnRecord)
}

// countingTransactor records how many times a transaction was opened.
type countingTransactor struct {
	calls int
}

func (c *countingTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	return fn(ctx)
}

func TestApproveAndDelete_RunWithinTransaction(t *testing.T) {
	t.Parallel()

	clk := clock.NewFixed(time.Date(2024, time.January, 15, 8, 30, 0, 0, time.UTC))
	records := memory.NewTimbraturaRepository()
	transactor := &countingTransactor{}
	svc := NewTimbraturaService(
		records, memory.NewShiftRepository(),
		tokensvc.NewTokenService(memory.NewPunchTokenRepository(), clk, 0),
		transactor, clk,
	)

	ctx := identity.WithIdentity(context.Background(), identity.Identity{UserID: "user-1", Role: user.RoleDipendente})
	managerCtx := identity.WithIdentity(context.Background(), identity.Identity{UserID: "manager-1", Role: user.RoleManager})
	adminCtx := identity.WithIdentity(context.Background(), identity.Identity{UserID: "admin-1", Role: user.RoleAdmin})

	created, err := svc.PunchIn(ctx, domain.PunchInRequest{})
	require.NoError(t, err)
	clk.Advance(8 * time.Hour)
	_, err = svc.PunchOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, transactor.calls, "punches do not open a transaction")

	_, err = svc.Approve(managerCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, transactor.calls)

	require.NoError(t, svc.Delete(adminCtx, created.ID))
	assert.Equal(t, 2, transactor.calls)
}

func TestDelete_AdminOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	err = f.service.Delete(f.managerCtx, created.ID)
	assert.ErrorIs(t, err, user.ErrAdminAccessRequired)

	adminCtx := identity.WithIdentity(context.Background(), identity.Identity{UserID: "admin-1", Role: user.RoleAdmin})
	require.NoError(t, f.service.Delete(adminCtx, created.ID))

	_, err = f.records.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrTimbraturaNotFound)
}

func TestCloseMissingUscita_BackfillsShiftEnd(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.service.CloseMissingUscita(context.Background(), "user-1", date))

	record, err := f.records.GetByUserAndDate(context.Background(), "user-1", date)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.Uscita)
	// Default shift ends at 18:00.
	assert.Equal(t, time.Date(2024, time.January, 15, 18, 0, 0, 0, time.UTC), record.Uscita.UTC())
	require.NotNil(t, record.OreTotali)
	// 08:30 to 18:00 with no recorded break.
	assert.Equal(t, 9.5, *record.OreTotali)
}

func TestCloseMissingUscita_EntrataAfterShiftEnd(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.clock.Instant = time.Date(2024, time.January, 15, 19, 0, 0, 0, time.UTC)
	_, err := f.service.PunchIn(f.ctx, domain.PunchInRequest{})
	require.NoError(t, err)

	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	err = f.service.CloseMissingUscita(context.Background(), "user-1", date)
	assert.ErrorIs(t, err, domain.ErrUscitaBeforeEntrata)
}
