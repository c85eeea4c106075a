// Package forecast projects near-future sales from the daily revenue
// series: the fitted regression line extended forward, scaled by the
// day-of-week seasonal multiplier. The Low/High band is a fixed +-20%
// around the point value, a deliberate simplification rather than a
// statistical confidence interval.
package forecast

import (
	"fmt"
	"math"
	"sort"

	"github.com/dukaantech/insights-backend/internal/insights/trend"
	"github.com/dukaantech/insights-backend/internal/insights/types"
)

// Forecast periods.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// Confidence labels shared by sales and demand forecasts.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Regression never extrapolates from fewer than this many days.
const minHistoryDays = 7

const (
	bandRatio         = 0.2
	highRSquared      = 0.5
	mediumRSquared    = 0.3
	highSampleCount   = 10
	mediumSampleCount = 5
)

// Sales projects revenue for the requested period from the daily series.
// With fewer than seven days of history it returns a zero-value,
// low-confidence forecast with an explanatory note instead of a number.
func Sales(daily []types.DailyBucket, period string) types.Forecast {
	days := horizonDays(period)
	result := types.Forecast{Period: period, Days: days}

	if len(daily) < minHistoryDays {
		result.Confidence = ConfidenceLow
		result.Note = fmt.Sprintf("Only %d day(s) of history available; at least %d are needed to forecast.", len(daily), minHistoryDays)
		return result
	}

	revenues := make([]float64, len(daily))
	for i, bucket := range daily {
		revenues[i] = bucket.Revenue
	}
	fit := trend.LeastSquares(revenues)
	seasonality := trend.AnalyzeSeasonality(daily)

	base := fit.Slope*float64(fit.N+days) + fit.Intercept
	value := base * seasonality.AvgMultiplier
	if value < 0 {
		value = 0
	}

	result.Value = value
	result.Low = value * (1 - bandRatio)
	result.High = value * (1 + bandRatio)
	result.Confidence = fitConfidence(fit.RSquared)
	result.Factors = []string{
		fmt.Sprintf("regression over %d days (slope %.2f/day)", fit.N, fit.Slope),
		fmt.Sprintf("seasonal multiplier %.2f (%s)", seasonality.AvgMultiplier, seasonality.Strength),
	}
	return result
}

// ProductDemand estimates per-product demand over the horizon from the mean
// daily quantity observed in the window. Confidence is keyed to how many
// line-item observations back the estimate.
func ProductDemand(orders []types.Order, period string) []types.ProductDemand {
	days := horizonDays(period)

	type productObs struct {
		name     string
		quantity float64
		samples  int
		daySet   map[string]struct{}
	}
	observed := make(map[string]*productObs)
	for _, order := range orders {
		day := order.Timestamp.UTC().Format("2006-01-02")
		for _, item := range order.Items {
			key := item.ProductKey
			if key == "" {
				key = item.ProductName
			}
			if key == "" {
				continue
			}
			obs, ok := observed[key]
			if !ok {
				obs = &productObs{name: item.ProductName, daySet: make(map[string]struct{})}
				observed[key] = obs
			}
			obs.quantity += item.Quantity
			obs.samples++
			obs.daySet[day] = struct{}{}
		}
	}

	demands := make([]types.ProductDemand, 0, len(observed))
	for key, obs := range observed {
		if len(obs.daySet) == 0 {
			continue
		}
		meanDaily := obs.quantity / float64(len(obs.daySet))
		demands = append(demands, types.ProductDemand{
			Key:             key,
			Name:            obs.name,
			EstimatedDemand: int(math.Ceil(meanDaily * float64(days))),
			Confidence:      sampleConfidence(obs.samples),
		})
	}
	sortDemands(demands)
	return demands
}

func horizonDays(period string) int {
	switch period {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	default:
		return 1
	}
}

func fitConfidence(rSquared float64) string {
	switch {
	case rSquared > highRSquared:
		return ConfidenceHigh
	case rSquared > mediumRSquared:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func sampleConfidence(samples int) string {
	switch {
	case samples > highSampleCount:
		return ConfidenceHigh
	case samples > mediumSampleCount:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func sortDemands(demands []types.ProductDemand) {
	sort.Slice(demands, func(i, j int) bool {
		if demands[i].EstimatedDemand != demands[j].EstimatedDemand {
			return demands[i].EstimatedDemand > demands[j].EstimatedDemand
		}
		return demands[i].Key < demands[j].Key
	})
}
