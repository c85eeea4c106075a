// Package trend fits the daily revenue series and summarizes product,
// customer and seasonal movement for the report window. All math is plain
// least squares over small in-memory series; confidence values here are fit
// quality, not the narrative reliability score.
package trend

import (
	"fmt"
	"math"
	"time"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

// Slope classification deadband in currency units per day. Deliberately low
// so any persistent movement is flagged.
const slopeThreshold = 0.1

// Seasonality strength thresholds: variance of the day-of-week means
// relative to the overall mean revenue.
const (
	strongVarianceRatio   = 0.10
	moderateVarianceRatio = 0.05
)

// AnalyzeSales regresses daily revenue against a 0-based day index and
// classifies the slope. Fewer than two buckets yields insufficient_data.
func AnalyzeSales(daily []types.DailyBucket) types.SalesTrend {
	if len(daily) < 2 {
		return types.SalesTrend{
			Direction:   types.TrendInsufficientData,
			Description: "Not enough daily data to establish a sales trend.",
		}
	}

	revenues := make([]float64, len(daily))
	for i, bucket := range daily {
		revenues[i] = bucket.Revenue
	}

	fit := LeastSquares(revenues)
	trend := types.SalesTrend{
		Slope:      fit.Slope,
		Change:     fit.Slope,
		Confidence: math.Min(fit.RSquared, 1),
	}

	switch {
	case fit.Slope > slopeThreshold:
		trend.Direction = types.TrendIncreasing
		trend.Description = fmt.Sprintf("Sales are trending up by about %.2f per day.", fit.Slope)
	case fit.Slope < -slopeThreshold:
		trend.Direction = types.TrendDecreasing
		trend.Description = fmt.Sprintf("Sales are trending down by about %.2f per day.", math.Abs(fit.Slope))
	default:
		trend.Direction = types.TrendStable
		trend.Description = "Sales are holding steady day over day."
	}
	return trend
}

// AnalyzeSeasonality derives the day-of-week revenue pattern. With fewer
// than seven distinct days it returns the neutral multiplier so forecasts
// stay unscaled.
func AnalyzeSeasonality(daily []types.DailyBucket) types.Seasonality {
	neutral := types.Seasonality{AvgMultiplier: 1, Strength: "none"}
	if len(daily) < 7 {
		return neutral
	}

	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	var total float64
	for _, bucket := range daily {
		day, err := time.Parse("2006-01-02", bucket.Day)
		if err != nil {
			continue
		}
		wd := day.Weekday()
		sums[wd] += bucket.Revenue
		counts[wd]++
		total += bucket.Revenue
	}
	if len(counts) == 0 {
		return neutral
	}

	overallMean := total / float64(len(daily))
	if overallMean == 0 {
		return neutral
	}

	means := make(map[time.Weekday]float64, len(sums))
	meanValues := make([]float64, 0, len(sums))
	var peak time.Weekday
	var peakMean float64
	for wd, sum := range sums {
		mean := sum / float64(counts[wd])
		means[wd] = mean
		meanValues = append(meanValues, mean)
		if mean > peakMean {
			peakMean = mean
			peak = wd
		}
	}

	variance := PopulationVariance(meanValues)
	strength := "weak"
	switch {
	case variance > strongVarianceRatio*overallMean:
		strength = "strong"
	case variance > moderateVarianceRatio*overallMean:
		strength = "moderate"
	}

	return types.Seasonality{
		AvgMultiplier: peakMean / overallMean,
		Strength:      strength,
		PeakWeekday:   peak,
		DayMeans:      means,
	}
}
