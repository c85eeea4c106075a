package narrative

import (
	"testing"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

func TestReliabilityFullMarks(t *testing.T) {
	report := healthyReport()
	summary := Generate(report, now)

	// 35 fresh, complete, consistent orders score the full composite.
	if summary.Reliability < 0.99 || summary.Reliability > 1 {
		t.Fatalf("expected reliability ~1, got %f", summary.Reliability)
	}
}

func TestReliabilitySparseData(t *testing.T) {
	report := &types.Report{
		GeneratedAt: now,
		Metrics: types.Metrics{
			TotalOrders:       2,
			TotalRevenue:      60,
			AverageOrderValue: 30,
			Daily:             []types.DailyBucket{{Day: "2026-03-19", Orders: 2, Revenue: 60}},
		},
		Sales: types.SalesTrend{Direction: types.TrendInsufficientData},
	}
	summary := Generate(report, now)

	// Volume and completeness penalties cap the score well below full marks.
	if summary.Reliability > 0.65 {
		t.Fatalf("sparse data should score low, got %f", summary.Reliability)
	}
	if summary.Reliability < 0 || summary.Reliability > 1 {
		t.Fatalf("reliability out of range: %f", summary.Reliability)
	}
}

func TestReliabilityStaleDataScoresLower(t *testing.T) {
	fresh := healthyReport()
	stale := healthyReport()
	stale.Metrics.Daily = []types.DailyBucket{{Day: "2025-11-01", Orders: 5, Revenue: 1000}}

	freshScore := Generate(fresh, now).Reliability
	staleScore := Generate(stale, now).Reliability
	if staleScore >= freshScore {
		t.Fatalf("stale data must score below fresh: %f vs %f", staleScore, freshScore)
	}
}

func TestReliabilityImplausibleAOV(t *testing.T) {
	report := healthyReport()
	report.Metrics.AverageOrderValue = 250000

	sane := Generate(healthyReport(), now).Reliability
	odd := Generate(report, now).Reliability
	if odd >= sane {
		t.Fatalf("implausible AOV must lower the score: %f vs %f", odd, sane)
	}
}
