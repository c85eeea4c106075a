package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dukaantech/insights-backend/internal/insights/report"
)

// Intents the assistant can answer.
const (
	IntentTopProducts      = "top_products"
	IntentSalesPeriod      = "sales_period"
	IntentCustomerInsights = "customer_insights"
	IntentRevenueAnalysis  = "revenue_analysis"
	IntentForecast         = "forecast"
	IntentUnknown          = "unknown"
)

const (
	matchedConfidence = 0.8
	unknownConfidence = 0.1
)

const (
	defaultTopCount = 5
	maxTopCount     = 20
)

// classification is the parse result for one question.
type classification struct {
	Intent     string
	Confidence float64
	Period     string
	Count      int
}

type intentRule struct {
	intent  string
	pattern *regexp.Regexp
}

// The rules form an ordered decision list: the first match wins, so the
// narrow patterns come before the broad sales catch-all.
var intentRules = []intentRule{
	{IntentTopProducts, regexp.MustCompile(`(?i)\b(top|best|most popular|best[- ]selling|popular)\b.*\b(products?|items?|sellers?)\b|\bwhat sells\b`)},
	{IntentForecast, regexp.MustCompile(`(?i)\b(forecast|predict|prediction|projection|expect|next week|next month)\b`)},
	{IntentCustomerInsights, regexp.MustCompile(`(?i)\b(customers?|buyers?|shoppers?|repeat|retention|loyal)\b`)},
	{IntentRevenueAnalysis, regexp.MustCompile(`(?i)\b(revenue|earnings|income|average order|aov|profit)\b|\bhow much\b`)},
	{IntentSalesPeriod, regexp.MustCompile(`(?i)\b(sales|sell|sold|selling|orders?|performance)\b`)},
}

// periodRules map question phrasing to range labels. Two-word periods come
// first so "last week" never falls through to "week".
var periodRules = []struct {
	phrase string
	label  string
}{
	{"last week", report.RangeLastWeek},
	{"previous week", report.RangeLastWeek},
	{"last month", report.RangeLastMonth},
	{"previous month", report.RangeLastMonth},
	{"yesterday", report.RangeYesterday},
	{"today", report.RangeToday},
	{"this week", report.RangeWeek},
	{"week", report.RangeWeek},
	{"this month", report.RangeMonth},
	{"month", report.RangeMonth},
}

var countPattern = regexp.MustCompile(`\d+`)

// classify parses one question into intent, period and count.
func classify(text string) classification {
	lowered := strings.ToLower(text)

	result := classification{
		Intent:     IntentUnknown,
		Confidence: unknownConfidence,
		Period:     report.RangeMonth,
		Count:      defaultTopCount,
	}
	for _, rule := range intentRules {
		if rule.pattern.MatchString(lowered) {
			result.Intent = rule.intent
			result.Confidence = matchedConfidence
			break
		}
	}
	for _, rule := range periodRules {
		if strings.Contains(lowered, rule.phrase) {
			result.Period = rule.label
			break
		}
	}
	if raw := countPattern.FindString(lowered); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			if n > maxTopCount {
				n = maxTopCount
			}
			result.Count = n
		}
	}
	return result
}
