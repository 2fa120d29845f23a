package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/presenzelab/presenze-backend-go/internal/domain/report"
	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
	"github.com/presenzelab/presenze-backend-go/internal/repository/memory"
)

type fixture struct {
	service    domain.ReportService
	records    *memory.TimbraturaRepository
	users      *memory.UserRepository
	managerCtx context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	records := memory.NewTimbraturaRepository()
	users := memory.NewUserRepository()

	users.Put(user.User{ID: "user-rossi", Nome: "Mario", Cognome: "Rossi", BadgeCode: "0001-0001", Role: user.RoleDipendente})
	users.Put(user.User{ID: "user-bianchi", Nome: "Anna", Cognome: "bianchi", BadgeCode: "0002-0002", Role: user.RoleDipendente})

	return &fixture{
		service: NewReportService(records, users),
		records: records,
		users:   users,
		managerCtx: identity.WithIdentity(context.Background(), identity.Identity{
			UserID: "manager-1",
			Role:   user.RoleManager,
		}),
	}
}

func (f *fixture) seed(t *testing.T, userID string, day time.Time, commessa *string) {
	t.Helper()

	entrata := day.Add(9 * time.Hour)
	uscita := day.Add(17 * time.Hour)
	ore := 8.0
	created, err := f.records.Create(context.Background(), timbratura.Timbratura{
		UserID:   userID,
		Date:     day,
		Entrata:  entrata,
		Metodo:   timbratura.MetodoManual,
		Commessa: commessa,
	})
	require.NoError(t, err)

	created.Uscita = &uscita
	created.OreTotali = &ore
	require.NoError(t, f.records.Update(context.Background(), created))
}

func TestExportPeriod_RequiresManager(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	employeeCtx := identity.WithIdentity(context.Background(), identity.Identity{
		UserID: "user-rossi",
		Role:   user.RoleDipendente,
	})

	_, err := f.service.ExportPeriod(employeeCtx, domain.ExportRequest{From: "2024-01-01", To: "2024-01-31"})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}

func TestExportPeriod_TXT(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	commessa := "COM-42"
	f.seed(t, "user-rossi", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), &commessa)

	resp, err := f.service.ExportPeriod(f.managerCtx, domain.ExportRequest{From: "2024-01-01", To: "2024-01-31"})

	require.NoError(t, err)
	assert.Equal(t, "text/plain", resp.ContentType)
	assert.Equal(t, "presenze_2024-01-01_2024-01-31.txt", resp.Filename)

	lines := strings.Split(strings.TrimRight(string(resp.Body), "\n"), "\n")
	require.Len(t, lines, 2, "entrata and uscita export as separate lines")
	assert.Equal(t, "0001-0001\t2024-01-15T09:00:00Z\tentrata\tCOM-42", lines[0])
	assert.Equal(t, "0001-0001\t2024-01-15T17:00:00Z\tuscita\tCOM-42", lines[1])
}

func TestExportPeriod_CSVRoundTrip(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.seed(t, "user-rossi", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), nil)

	resp, err := f.service.ExportPeriod(f.managerCtx, domain.ExportRequest{
		From:   "2024-01-01",
		To:     "2024-01-31",
		Format: domain.FormatCSV,
	})

	require.NoError(t, err)
	assert.Equal(t, "text/csv", resp.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(resp.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"badge", "timestamp", "direction", "commessa"}, rows[0])
	assert.Equal(t, []string{"0001-0001", "2024-01-15T09:00:00Z", "entrata", ""}, rows[1])
	assert.Equal(t, []string{"0001-0001", "2024-01-15T17:00:00Z", "uscita", ""}, rows[2])
}

func TestExportPeriod_OrderingIsDeterministic(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	// Seed out of order; surname comparison is case-insensitive, so
	// "bianchi" sorts before "Rossi".
	f.seed(t, "user-rossi", time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC), nil)
	f.seed(t, "user-rossi", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), nil)
	f.seed(t, "user-bianchi", time.Date(2024, time.January, 17, 0, 0, 0, 0, time.UTC), nil)

	req := domain.ExportRequest{From: "2024-01-01", To: "2024-01-31"}
	first, err := f.service.ExportPeriod(f.managerCtx, req)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(first.Body), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "0002-0002\t2024-01-17T09:00:00Z"))
	assert.True(t, strings.HasPrefix(lines[2], "0001-0001\t2024-01-15T09:00:00Z"))
	assert.True(t, strings.HasPrefix(lines[4], "0001-0001\t2024-01-16T09:00:00Z"))

	// Repeated exports of the same data are byte-identical.
	for i := 0; i < 3; i++ {
		again, err := f.service.ExportPeriod(f.managerCtx, req)
		require.NoError(t, err)
		assert.Equal(t, first.Body, again.Body)
	}
}

func TestExportPeriod_SkipsOpenRecords(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	_, err := f.records.Create(context.Background(), timbratura.Timbratura{
		UserID:  "user-rossi",
		Date:    day,
		Entrata: day.Add(9 * time.Hour),
		Metodo:  timbratura.MetodoManual,
	})
	require.NoError(t, err)

	resp, err := f.service.ExportPeriod(f.managerCtx, domain.ExportRequest{From: "2024-01-01", To: "2024-01-31"})

	require.NoError(t, err)
	assert.Empty(t, resp.Body)
}

func TestExportRequest_Validate(t *testing.T) {
	t.Parallel()

	req := domain.ExportRequest{From: "2024-01-01", To: "2024-01-31"}
	require.NoError(t, req.Validate())
	assert.Equal(t, domain.FormatTXT, req.Format, "format defaults to txt")

	bad := domain.ExportRequest{From: "2024-01-31", To: "2024-01-01"}
	assert.Error(t, bad.Validate())
}
