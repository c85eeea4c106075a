package trend

import "github.com/dukaantech/insights-backend/internal/insights/types"

// AnalyzeHourly buckets orders by UTC hour of day and picks the peak hour
// by revenue. An empty window yields PeakHour -1 with no buckets.
func AnalyzeHourly(orders []types.Order) types.HourlyPattern {
	if len(orders) == 0 {
		return types.HourlyPattern{PeakHour: -1}
	}

	revenue := make(map[int]float64)
	counts := make(map[int]int)
	for _, order := range orders {
		hour := order.Timestamp.UTC().Hour()
		revenue[hour] += order.TotalAmount
		counts[hour]++
	}

	peak := -1
	var peakRevenue float64
	for hour, rev := range revenue {
		switch {
		case peak == -1, rev > peakRevenue:
			peak, peakRevenue = hour, rev
		case rev == peakRevenue && hour < peak:
			peak = hour
		}
	}

	return types.HourlyPattern{
		PeakHour:    peak,
		PeakRevenue: peakRevenue,
		Revenue:     revenue,
		Orders:      counts,
	}
}
