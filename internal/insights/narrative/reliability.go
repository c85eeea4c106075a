package narrative

import (
	"time"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

// Reliability weights: data volume 40%, completeness 30%, internal
// consistency 20%, recency 10%. Sub-scores add up and the total clamps to
// [0,1].
const (
	volumeWeight       = 0.4
	completenessWeight = 0.3
	consistencyWeight  = 0.2
	recencyWeight      = 0.1
)

// AOV sanity band for the consistency check, in rupees.
const (
	saneAOVFloor   = 10
	saneAOVCeiling = 10000
)

func reliabilityScore(report *types.Report, now time.Time) float64 {
	score := volumeScore(report.Metrics.TotalOrders) +
		completenessScore(report) +
		consistencyScore(report.Metrics) +
		recencyScore(report, now)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// volumeScore tiers: >=30 data points excellent, >=10 good, >=5 fair,
// below that poor.
func volumeScore(totalOrders int) float64 {
	switch {
	case totalOrders >= 30:
		return volumeWeight
	case totalOrders >= 10:
		return volumeWeight * 0.75
	case totalOrders >= 5:
		return volumeWeight * 0.5
	default:
		return volumeWeight * 0.25
	}
}

// completenessScore is the satisfied fraction of: has orders, has revenue,
// has a computed trend.
func completenessScore(report *types.Report) float64 {
	satisfied := 0
	if report.Metrics.TotalOrders > 0 {
		satisfied++
	}
	if report.Metrics.TotalRevenue > 0 {
		satisfied++
	}
	if report.Sales.Direction != "" && report.Sales.Direction != types.TrendInsufficientData {
		satisfied++
	}
	return completenessWeight * float64(satisfied) / 3
}

// consistencyScore checks the average order value sits in a sane band.
func consistencyScore(m types.Metrics) float64 {
	if m.TotalOrders == 0 {
		return 0
	}
	if m.AverageOrderValue >= saneAOVFloor && m.AverageOrderValue <= saneAOVCeiling {
		return consistencyWeight
	}
	return consistencyWeight * 0.25
}

// recencyScore tiers by days since the newest order: within a day, a week,
// a month, older.
func recencyScore(report *types.Report, now time.Time) float64 {
	var newest time.Time
	for _, bucket := range report.Metrics.Daily {
		day, err := time.Parse("2006-01-02", bucket.Day)
		if err != nil {
			continue
		}
		if day.After(newest) {
			newest = day
		}
	}
	if newest.IsZero() {
		return 0
	}

	age := now.Sub(newest)
	switch {
	case age <= 24*time.Hour:
		return recencyWeight
	case age <= 7*24*time.Hour:
		return recencyWeight * 0.7
	case age <= 30*24*time.Hour:
		return recencyWeight * 0.4
	default:
		return recencyWeight * 0.1
	}
}
