package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/presenzelab/presenze-backend-go/internal/domain/report"
	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
)

type ReportServiceImpl struct {
	timbratura.TimbraturaRepository
	user.UserRepository
}

func NewReportService(
	timbraturaRepository timbratura.TimbraturaRepository,
	userRepository user.UserRepository,
) report.ReportService {
	return &ReportServiceImpl{
		TimbraturaRepository: timbraturaRepository,
		UserRepository:       userRepository,
	}
}

// punchLine is one serialized punch event. Entrata and uscita of the same
// record export as two lines.
type punchLine struct {
	badge     string
	timestamp time.Time
	direction string
	commessa  string

	// sort fields
	cognome string
	nome    string
	date    time.Time
}

// ExportPeriod implements report.ReportService.
func (s *ReportServiceImpl) ExportPeriod(ctx context.Context, req report.ExportRequest) (report.ExportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ExportResponse{}, err
	}

	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return report.ExportResponse{}, fmt.Errorf("failed to extract identity from context: %w", err)
	}
	if !user.HasPermission(id.Role, user.PermissionReportExport) {
		return report.ExportResponse{}, user.ErrManagerAccessRequired
	}

	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)

	records, err := s.TimbraturaRepository.ListCompleted(ctx, from, to)
	if err != nil {
		return report.ExportResponse{}, fmt.Errorf("failed to list completed records: %w", err)
	}

	lines, err := s.buildLines(ctx, records)
	if err != nil {
		return report.ExportResponse{}, err
	}
	sortLines(lines)

	var body []byte
	var contentType string
	switch req.Format {
	case report.FormatCSV:
		body, err = encodeCSV(lines)
		contentType = "text/csv"
	default:
		body = encodeTXT(lines)
		contentType = "text/plain"
	}
	if err != nil {
		return report.ExportResponse{}, fmt.Errorf("failed to encode export: %w", err)
	}

	return report.ExportResponse{
		ContentType: contentType,
		Filename:    fmt.Sprintf("presenze_%s_%s.%s", req.From, req.To, req.Format),
		Body:        body,
	}, nil
}

func (s *ReportServiceImpl) buildLines(ctx context.Context, records []timbratura.Timbratura) ([]punchLine, error) {
	userIDs := make([]string, 0, len(records))
	seen := make(map[string]bool)
	for _, r := range records {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			userIDs = append(userIDs, r.UserID)
		}
	}

	users, err := s.UserRepository.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load users for export: %w", err)
	}
	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	lines := make([]punchLine, 0, 2*len(records))
	for _, r := range records {
		if r.Uscita == nil {
			continue
		}
		u := byID[r.UserID]

		commessa := ""
		if r.Commessa != nil {
			commessa = *r.Commessa
		}

		base := punchLine{
			badge:    u.BadgeCode,
			commessa: commessa,
			cognome:  u.Cognome,
			nome:     u.Nome,
			date:     r.Date,
		}

		entrata := base
		entrata.timestamp = r.Entrata
		entrata.direction = "entrata"

		uscita := base
		uscita.timestamp = *r.Uscita
		uscita.direction = "uscita"

		lines = append(lines, entrata, uscita)
	}
	return lines, nil
}

// sortLines orders by surname, first name (case-insensitive), date and
// punch timestamp. The order is total, so repeated exports of the same
// dataset are byte-identical.
func sortLines(lines []punchLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if c := strings.Compare(strings.ToLower(a.cognome), strings.ToLower(b.cognome)); c != 0 {
			return c < 0
		}
		if c := strings.Compare(strings.ToLower(a.nome), strings.ToLower(b.nome)); c != 0 {
			return c < 0
		}
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		return a.timestamp.Before(b.timestamp)
	})
}

// encodeTXT emits tab-separated lines, no header:
// badge \t timestamp \t direction \t commessa
func encodeTXT(lines []punchLine) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l.badge)
		buf.WriteByte('\t')
		buf.WriteString(l.timestamp.Format(time.RFC3339))
		buf.WriteByte('\t')
		buf.WriteString(l.direction)
		buf.WriteByte('\t')
		buf.WriteString(l.commessa)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// encodeCSV emits a header row and RFC4180-quoted records.
func encodeCSV(lines []punchLine) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"badge", "timestamp", "direction", "commessa"}); err != nil {
		return nil, err
	}
	for _, l := range lines {
		record := []string{l.badge, l.timestamp.Format(time.RFC3339), l.direction, l.commessa}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
