// Package narrative turns a structured report into a plain-language
// summary, a ranked insight list and prioritized recommendations. Output is
// template-driven: each sentence has a readiness check, so sparse data
// degrades the paragraph instead of breaking it.
package narrative

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

// The fixed summary emitted when the window holds no orders at all.
const noDataSummary = "No orders were recorded in this period, so there is nothing to summarize yet."

// Insight rule thresholds.
const (
	highAOV            = 100
	concentrationWarn  = 0.8
	strongRepeatRate   = 0.6
	momentumConfidence = 0.7
	slowDayShareOfPeak = 0.5
)

// Generate builds the full narrative for a report. The returned Reliability
// is the composite data-quality score; it never mixes with regression
// confidence.
func Generate(report *types.Report, now time.Time) *types.Summary {
	if report == nil {
		return &types.Summary{Text: noDataSummary, Insights: fallbackInsights(), Recommendations: fallbackRecommendations()}
	}
	summary := &types.Summary{
		Text:            buildText(report),
		Insights:        buildInsights(report),
		Recommendations: buildRecommendations(report),
		Reliability:     reliabilityScore(report, now),
	}
	return summary
}

func buildText(report *types.Report) string {
	if report.Metrics.TotalOrders == 0 {
		return noDataSummary
	}
	sentences := make([]string, 0, len(sentenceTemplates))
	for _, tmpl := range sentenceTemplates {
		if !tmpl.ready(report) {
			continue
		}
		sentences = append(sentences, tmpl.render(report))
	}
	return strings.Join(sentences, " ")
}

// buildInsights evaluates each rule independently; a generic fallback keeps
// the list non-empty.
func buildInsights(report *types.Report) []types.Insight {
	var insights []types.Insight

	if report.Metrics.AverageOrderValue > highAOV {
		insights = append(insights, types.Insight{
			Kind:      "revenue",
			Sentiment: "positive",
			Text:      fmt.Sprintf("A healthy average order value of %s suggests customers buy in meaningful baskets.", FormatCurrency(report.Metrics.AverageOrderValue)),
		})
	}
	if report.Products.ConcentrationRatio > concentrationWarn && report.Products.Distinct > 1 {
		insights = append(insights, types.Insight{
			Kind:      "diversification",
			Sentiment: "warning",
			Text:      fmt.Sprintf("The top products account for %.0f%% of revenue; a supply issue there would hit hard.", report.Products.ConcentrationRatio*100),
		})
	}
	if report.Customers.RepeatRate > strongRepeatRate {
		insights = append(insights, types.Insight{
			Kind:      "retention",
			Sentiment: "positive",
			Text:      fmt.Sprintf("%.0f%% of customers ordered more than once; retention is working.", report.Customers.RepeatRate*100),
		})
	}
	if report.Sales.Direction == types.TrendIncreasing && report.Sales.Confidence > momentumConfidence {
		insights = append(insights, types.Insight{
			Kind:      "momentum",
			Sentiment: "positive",
			Text:      "Sales momentum is building consistently; the upward trend is well supported by the data.",
		})
	}

	if len(insights) == 0 {
		insights = fallbackInsights()
	}
	return insights
}

func fallbackInsights() []types.Insight {
	return []types.Insight{{
		Kind:      "general",
		Sentiment: "neutral",
		Text:      "Sales activity is within normal ranges; keep an eye on the daily trend for changes.",
	}}
}

// buildRecommendations produces a prioritized action list with a low
// priority fallback so it is never empty.
func buildRecommendations(report *types.Report) []types.Recommendation {
	var recs []types.Recommendation

	if len(report.Products.Top) > 0 {
		recs = append(recs, types.Recommendation{
			Priority: "high",
			Action:   fmt.Sprintf("Ensure %s stays in stock; it is your top earner.", productLabel(report.Products.Top[0])),
		})
	}
	if slow := slowDays(report); len(slow) > 0 {
		recs = append(recs, types.Recommendation{
			Priority: "medium",
			Action:   fmt.Sprintf("Run promotions on slower days (%s) to balance weekly order volume.", strings.Join(slow, ", ")),
		})
	}
	if found := highSeverityAnomaly(report.Anomalies); found != nil && found.Kind == types.AnomalySales {
		recs = append(recs, types.Recommendation{
			Priority: "high",
			Action:   fmt.Sprintf("Investigate the revenue anomaly on %s before it repeats.", found.Day),
		})
	}

	if len(recs) == 0 {
		recs = fallbackRecommendations()
	}
	return recs
}

func fallbackRecommendations() []types.Recommendation {
	return []types.Recommendation{{
		Priority: "low",
		Action:   "Continue monitoring sales; no urgent action is needed right now.",
	}}
}

// slowDays lists days whose order volume fell below half of the peak day's.
func slowDays(report *types.Report) []string {
	peak := report.Metrics.PeakDay
	if peak == nil || peak.Orders == 0 {
		return nil
	}
	var slow []string
	for _, bucket := range report.Metrics.Daily {
		if float64(bucket.Orders) < slowDayShareOfPeak*float64(peak.Orders) {
			slow = append(slow, bucket.Day)
		}
	}
	return slow
}
