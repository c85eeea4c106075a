package trend

import (
	"math"
	"testing"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

func buckets(revenues ...float64) []types.DailyBucket {
	out := make([]types.DailyBucket, 0, len(revenues))
	for i, revenue := range revenues {
		out = append(out, types.DailyBucket{
			Day:     dayKey(i),
			Orders:  1,
			Revenue: revenue,
		})
	}
	return out
}

// dayKey walks forward from a Monday.
func dayKey(offset int) string {
	days := []string{
		"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05",
		"2026-03-06", "2026-03-07", "2026-03-08", "2026-03-09",
		"2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13",
		"2026-03-14", "2026-03-15",
	}
	return days[offset%len(days)]
}

func TestAnalyzeSalesSlopeClassification(t *testing.T) {
	cases := []struct {
		name  string
		slope float64
		want  types.TrendDirection
	}{
		{"slightly positive is stable", 0.05, types.TrendStable},
		{"above threshold is increasing", 0.2, types.TrendIncreasing},
		{"below threshold is decreasing", -0.2, types.TrendDecreasing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			series := make([]float64, 10)
			for i := range series {
				series[i] = 100 + tc.slope*float64(i)
			}
			result := AnalyzeSales(buckets(series...))
			if result.Direction != tc.want {
				t.Fatalf("slope %f: expected %s, got %s", tc.slope, tc.want, result.Direction)
			}
		})
	}
}

func TestAnalyzeSalesInsufficientData(t *testing.T) {
	result := AnalyzeSales(buckets(100))
	if result.Direction != types.TrendInsufficientData {
		t.Fatalf("expected insufficient_data, got %s", result.Direction)
	}
}

func TestAnalyzeSalesConfidenceIsFitQuality(t *testing.T) {
	// A perfect line fits with r squared 1.
	result := AnalyzeSales(buckets(100, 110, 120, 130, 140))
	if math.Abs(result.Confidence-1) > 1e-9 {
		t.Fatalf("expected confidence 1 for a perfect line, got %f", result.Confidence)
	}
	if result.Confidence > 1 {
		t.Fatalf("confidence must never exceed 1")
	}
}

func TestLeastSquaresConstantSeries(t *testing.T) {
	fit := LeastSquares([]float64{50, 50, 50, 50})
	if fit.Slope != 0 {
		t.Fatalf("expected zero slope, got %f", fit.Slope)
	}
	// A constant series fits its own mean exactly.
	if fit.RSquared != 1 {
		t.Fatalf("expected r squared 1, got %f", fit.RSquared)
	}
}

func TestLeastSquaresKnownLine(t *testing.T) {
	fit := LeastSquares([]float64{2, 4, 6, 8})
	if math.Abs(fit.Slope-2) > 1e-9 || math.Abs(fit.Intercept-2) > 1e-9 {
		t.Fatalf("expected y=2x+2, got slope %f intercept %f", fit.Slope, fit.Intercept)
	}
}

func TestAnalyzeSeasonalityNeutralBelowSevenDays(t *testing.T) {
	result := AnalyzeSeasonality(buckets(100, 200, 300))
	if result.AvgMultiplier != 1 || result.Strength != "none" {
		t.Fatalf("expected neutral seasonality, got %+v", result)
	}
}

func TestAnalyzeSeasonalityPeakWeekday(t *testing.T) {
	// Fourteen days, Saturdays double everything else.
	daily := make([]types.DailyBucket, 14)
	for i := range daily {
		revenue := 100.0
		if dayKey(i) == "2026-03-07" || dayKey(i) == "2026-03-14" {
			revenue = 200
		}
		daily[i] = types.DailyBucket{Day: dayKey(i), Orders: 1, Revenue: revenue}
	}

	result := AnalyzeSeasonality(daily)
	if result.AvgMultiplier <= 1 {
		t.Fatalf("expected multiplier above 1, got %f", result.AvgMultiplier)
	}
	if result.PeakWeekday.String() != "Saturday" {
		t.Fatalf("expected Saturday peak, got %s", result.PeakWeekday)
	}
}
