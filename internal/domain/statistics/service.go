package statistics

import "context"

// StatisticsService aggregates completed attendance records.
type StatisticsService interface {
	// GetStatistics rolls up one period (the ISO week or calendar month
	// containing the anchor date)
	GetStatistics(ctx context.Context, req StatsRequest) (PeriodStats, error)

	// GetRollups groups completed records between from and to by ISO week
	// or year-month
	GetRollups(ctx context.Context, req RollupRequest) ([]RollupBucket, error)
}
