package query

import (
	"testing"

	"github.com/dukaantech/insights-backend/internal/insights/report"
)

func TestClassifyIntents(t *testing.T) {
	cases := []struct {
		question string
		intent   string
		period   string
	}{
		{"What were my top products this month?", IntentTopProducts, report.RangeMonth},
		{"show me sales for last week", IntentSalesPeriod, report.RangeLastWeek},
		{"best selling items today", IntentTopProducts, report.RangeToday},
		{"how are my customers doing", IntentCustomerInsights, report.RangeMonth},
		{"how much revenue did I make yesterday", IntentRevenueAnalysis, report.RangeYesterday},
		{"forecast my sales for next week", IntentForecast, report.RangeWeek},
		{"what will I sell next month", IntentForecast, report.RangeMonth},
		{"orders this week", IntentSalesPeriod, report.RangeWeek},
		{"do my repeat buyers spend more", IntentCustomerInsights, report.RangeMonth},
	}
	for _, tc := range cases {
		parsed := classify(tc.question)
		if parsed.Intent != tc.intent {
			t.Errorf("%q: expected intent %s, got %s", tc.question, tc.intent, parsed.Intent)
		}
		if parsed.Period != tc.period {
			t.Errorf("%q: expected period %s, got %s", tc.question, tc.period, parsed.Period)
		}
		if parsed.Confidence != matchedConfidence {
			t.Errorf("%q: expected confidence %.1f, got %.1f", tc.question, matchedConfidence, parsed.Confidence)
		}
	}
}

func TestClassifyUnknown(t *testing.T) {
	parsed := classify("what is the meaning of life")
	if parsed.Intent != IntentUnknown {
		t.Fatalf("expected unknown intent, got %s", parsed.Intent)
	}
	if parsed.Confidence != unknownConfidence {
		t.Fatalf("expected confidence %.1f, got %.1f", unknownConfidence, parsed.Confidence)
	}
}

func TestClassifyCountExtraction(t *testing.T) {
	if got := classify("show my top 3 products").Count; got != 3 {
		t.Fatalf("expected count 3, got %d", got)
	}
	if got := classify("top products").Count; got != defaultTopCount {
		t.Fatalf("expected default count, got %d", got)
	}
	if got := classify("top 500 products").Count; got != maxTopCount {
		t.Fatalf("expected count clamped to %d, got %d", maxTopCount, got)
	}
}
