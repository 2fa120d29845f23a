package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/presenzelab/presenze-backend-go/internal/domain/report"
	"github.com/presenzelab/presenze-backend-go/internal/domain/statistics"
	"github.com/presenzelab/presenze-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetStatistics(w http.ResponseWriter, r *http.Request)
	GetRollups(w http.ResponseWriter, r *http.Request)
	ExportPeriod(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	statisticsService statistics.StatisticsService
	reportService     report.ReportService
}

func NewReportHandler(statisticsService statistics.StatisticsService, reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		statisticsService: statisticsService,
		reportService:     reportService,
	}
}

// GetStatistics implements ReportHandler.
func (h *reportHandlerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	req := statistics.StatsRequest{
		UserID: r.URL.Query().Get("user_id"),
		Period: r.URL.Query().Get("period"),
		Anchor: r.URL.Query().Get("anchor"),
	}

	result, err := h.statisticsService.GetStatistics(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetRollups implements ReportHandler.
func (h *reportHandlerImpl) GetRollups(w http.ResponseWriter, r *http.Request) {
	req := statistics.RollupRequest{
		UserID:  r.URL.Query().Get("user_id"),
		From:    r.URL.Query().Get("from"),
		To:      r.URL.Query().Get("to"),
		GroupBy: r.URL.Query().Get("group_by"),
	}

	result, err := h.statisticsService.GetRollups(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportPeriod implements ReportHandler. The export body is served raw,
// not wrapped in the JSON envelope.
func (h *reportHandlerImpl) ExportPeriod(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
		Format: r.URL.Query().Get("format"),
	}

	result, err := h.reportService.ExportPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Body)
}
