package valuation

import "github.com/KotFed0t/portfolio_tracker/internal/model"

// HistoryRange returns start, end, extremes and change of points ordered by date.
// ok is false for an empty range. ChangePercent is zero when the start value is zero.
func HistoryRange(points []model.HistoryPoint) (stats model.HistoryStats, ok bool) {
	if len(points) == 0 {
		return model.HistoryStats{}, false
	}

	stats.Start = points[0]
	stats.End = points[len(points)-1]
	stats.Highest = points[0]
	stats.Lowest = points[0]

	for _, p := range points[1:] {
		if p.TotalValue.GreaterThan(stats.Highest.TotalValue) {
			stats.Highest = p
		}
		if p.TotalValue.LessThan(stats.Lowest.TotalValue) {
			stats.Lowest = p
		}
	}

	stats.Change = stats.End.TotalValue.Sub(stats.Start.TotalValue)
	stats.ChangePercent = percentOf(stats.Change, stats.Start.TotalValue)

	return stats, true
}
