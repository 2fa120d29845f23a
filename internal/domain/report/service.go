package report

import "context"

// ReportService serializes completed attendance records for payroll.
// Output is deterministic: identical datasets always serialize to
// identical bytes.
type ReportService interface {
	ExportPeriod(ctx context.Context, req ExportRequest) (ExportResponse, error)
}
