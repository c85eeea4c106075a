package narrative

import (
	"fmt"
	"strings"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

// sentenceTemplate renders one summary sentence. When the required fields
// are missing the template is skipped and the sentence degrades away
// instead of crashing or emitting placeholders.
type sentenceTemplate struct {
	key    string
	ready  func(*types.Report) bool
	render func(*types.Report) string
}

var sentenceTemplates = []sentenceTemplate{
	{
		key:   "overview",
		ready: func(r *types.Report) bool { return r.Metrics.TotalOrders > 0 },
		render: func(r *types.Report) string {
			return fmt.Sprintf("You received %d orders worth %s, averaging %s per order.",
				r.Metrics.TotalOrders,
				FormatCurrency(r.Metrics.TotalRevenue),
				FormatCurrency(r.Metrics.AverageOrderValue))
		},
	},
	{
		key:   "growth",
		ready: func(r *types.Report) bool { return r.HasPriorData && r.PriorRevenue > 0 },
		render: func(r *types.Report) string {
			change := (r.Metrics.TotalRevenue - r.PriorRevenue) / r.PriorRevenue * 100
			if change >= 0 {
				return fmt.Sprintf("Revenue is up %.1f%% on the previous period.", change)
			}
			return fmt.Sprintf("Revenue is down %.1f%% on the previous period.", -change)
		},
	},
	{
		key:   "top_product",
		ready: func(r *types.Report) bool { return len(r.Products.Top) > 0 },
		render: func(r *types.Report) string {
			top := r.Products.Top[0]
			return fmt.Sprintf("%s led sales with %s in revenue.", productLabel(top), FormatCurrency(top.Revenue))
		},
	},
	{
		key:   "trend",
		ready: func(r *types.Report) bool { return r.Sales.Description != "" },
		render: func(r *types.Report) string {
			return r.Sales.Description
		},
	},
	{
		key:   "peak_day",
		ready: func(r *types.Report) bool { return r.Metrics.PeakDay != nil },
		render: func(r *types.Report) string {
			return fmt.Sprintf("Your busiest day was %s with %d orders.", r.Metrics.PeakDay.Day, r.Metrics.PeakDay.Orders)
		},
	},
	{
		key: "anomaly_warning",
		ready: func(r *types.Report) bool {
			return highSeverityAnomaly(r.Anomalies) != nil
		},
		render: func(r *types.Report) string {
			found := highSeverityAnomaly(r.Anomalies)
			return fmt.Sprintf("Heads up: %s", found.Description)
		},
	},
}

func highSeverityAnomaly(anomalies []types.Anomaly) *types.Anomaly {
	for i := range anomalies {
		if anomalies[i].Severity == types.SeverityHigh {
			return &anomalies[i]
		}
	}
	return nil
}

func productLabel(stat types.ProductStat) string {
	if stat.Name != "" {
		return stat.Name
	}
	return stat.Key
}

// FormatCurrency renders a display amount as the rupee symbol plus a
// comma-grouped integer, no decimals.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := fmt.Sprintf("%.0f", amount)

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
