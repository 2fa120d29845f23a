package statistics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/presenzelab/presenze-backend-go/internal/domain/schedule"
	"github.com/presenzelab/presenze-backend-go/internal/domain/statistics"
	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
)

type StatisticsServiceImpl struct {
	timbratura.TimbraturaRepository
	schedule.ShiftRepository
}

func NewStatisticsService(
	timbraturaRepository timbratura.TimbraturaRepository,
	shiftRepository schedule.ShiftRepository,
) statistics.StatisticsService {
	return &StatisticsServiceImpl{
		TimbraturaRepository: timbraturaRepository,
		ShiftRepository:      shiftRepository,
	}
}

// WeekBounds returns the ISO week containing day: [Monday, next Monday).
func WeekBounds(day time.Time) (time.Time, time.Time) {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week started the previous Monday
	}
	start := day.AddDate(0, 0, -(weekday - 1))
	return start, start.AddDate(0, 0, 7)
}

// MonthBounds returns the calendar month containing day: [1st, next 1st).
func MonthBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 1, 0)
}

// WeekKey is the ISO-8601 grouping key, e.g. "2024-W03".
func WeekKey(day time.Time) string {
	year, week := day.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthKey is the year-month grouping key, e.g. "2024-01".
func MonthKey(day time.Time) string {
	return day.Format("2006-01")
}

// GetStatistics implements statistics.StatisticsService.
func (s *StatisticsServiceImpl) GetStatistics(ctx context.Context, req statistics.StatsRequest) (statistics.PeriodStats, error) {
	if err := req.Validate(); err != nil {
		return statistics.PeriodStats{}, err
	}

	userID, err := s.resolveTarget(ctx, req.UserID)
	if err != nil {
		return statistics.PeriodStats{}, err
	}

	anchor, _ := time.Parse("2006-01-02", req.Anchor)
	var start, end time.Time
	if req.Period == statistics.PeriodWeek {
		start, end = WeekBounds(anchor)
	} else {
		start, end = MonthBounds(anchor)
	}

	records, err := s.completedRecords(ctx, userID, start, end)
	if err != nil {
		return statistics.PeriodStats{}, err
	}

	shift, err := s.ShiftRepository.GetByUserID(ctx, userID)
	if err != nil {
		return statistics.PeriodStats{}, fmt.Errorf("failed to resolve shift: %w", err)
	}

	return aggregate(userID, start, end, records, shift.TolleranzaMinuti), nil
}

// GetRollups implements statistics.StatisticsService.
func (s *StatisticsServiceImpl) GetRollups(ctx context.Context, req statistics.RollupRequest) ([]statistics.RollupBucket, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID, err := s.resolveTarget(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)

	records, err := s.completedRecords(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	shift, err := s.ShiftRepository.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve shift: %w", err)
	}

	groups := make(map[string][]timbratura.Timbratura)
	for _, r := range records {
		var key string
		if req.GroupBy == statistics.PeriodWeek {
			key = WeekKey(r.Date)
		} else {
			key = MonthKey(r.Date)
		}
		groups[key] = append(groups[key], r)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buckets := make([]statistics.RollupBucket, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		var start, end time.Time
		if req.GroupBy == statistics.PeriodWeek {
			start, end = WeekBounds(group[0].Date)
		} else {
			start, end = MonthBounds(group[0].Date)
		}
		buckets = append(buckets, statistics.RollupBucket{
			Key:   key,
			Stats: aggregate(userID, start, end, group, shift.TolleranzaMinuti),
		})
	}
	return buckets, nil
}

// resolveTarget defaults to the caller and gates cross-user reads on the
// view_all capability.
func (s *StatisticsServiceImpl) resolveTarget(ctx context.Context, requested string) (string, error) {
	id, err := identity.FromContextOrDirect(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract identity from context: %w", err)
	}
	if requested == "" || requested == id.UserID {
		return id.UserID, nil
	}
	if !user.HasPermission(id.Role, user.PermissionStatsViewAll) {
		return "", user.ErrManagerAccessRequired
	}
	return requested, nil
}

func (s *StatisticsServiceImpl) completedRecords(ctx context.Context, userID string, from, to time.Time) ([]timbratura.Timbratura, error) {
	records, err := s.TimbraturaRepository.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	completed := records[:0]
	for _, r := range records {
		if r.State() == timbratura.StateCompleted {
			completed = append(completed, r)
		}
	}
	return completed, nil
}

// aggregate rolls a set of completed records into one PeriodStats. Sums
// are order-independent.
func aggregate(userID string, start, end time.Time, records []timbratura.Timbratura, tolleranzaMinuti int) statistics.PeriodStats {
	stats := statistics.PeriodStats{
		UserID:      userID,
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.Format("2006-01-02"),
	}

	for _, r := range records {
		if r.Date.Before(start) || !r.Date.Before(end) {
			continue
		}
		stats.TotaleDays++
		if r.OreTotali != nil {
			stats.TotaleOre += *r.OreTotali
		}
		if r.Straordinario != nil {
			stats.Straordinari += *r.Straordinario
		}
		if r.RitardoMinuti > tolleranzaMinuti {
			stats.Ritardi++
		}
	}

	if stats.TotaleDays > 0 {
		stats.MediaOreGiorno = stats.TotaleOre / float64(stats.TotaleDays)
	}
	return stats
}
