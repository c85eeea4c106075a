// Package anomaly flags statistical and heuristic irregularities in the
// report window. Each detector runs independently and appends typed
// findings to one list; a detector with insufficient data contributes
// nothing rather than erroring.
package anomaly

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dukaantech/insights-backend/internal/insights/trend"
	"github.com/dukaantech/insights-backend/internal/insights/types"
)

const (
	// Z-score thresholds over the daily revenue series (population stddev).
	flagZScore = 2.0
	highZScore = 3.0
	// Population stddev is unstable below this many days.
	minSalesDays = 3

	// High-demand product heuristic: many orders, small per-order quantity.
	productOrderFloor  = 50
	productQtyPerOrder = 1.5
	// High-volume customer grouping.
	customerTriggerCount = 10
	customerListCount    = 8
)

// Detect runs all three detectors over the computed aggregates and the
// canonical order set.
func Detect(m types.Metrics, products types.ProductTrend, orders []types.Order) []types.Anomaly {
	findings := make([]types.Anomaly, 0, 4)
	findings = append(findings, detectSales(m.Daily)...)
	findings = append(findings, detectProducts(products)...)
	findings = append(findings, detectCustomers(orders)...)
	return findings
}

// detectSales flags days whose revenue sits more than flagZScore population
// standard deviations from the window mean.
func detectSales(daily []types.DailyBucket) []types.Anomaly {
	if len(daily) < minSalesDays {
		return nil
	}

	revenues := make([]float64, len(daily))
	for i, bucket := range daily {
		revenues[i] = bucket.Revenue
	}
	mean := trend.Mean(revenues)
	stdDev := math.Sqrt(trend.PopulationVariance(revenues))
	if stdDev == 0 {
		return nil
	}

	var findings []types.Anomaly
	for _, bucket := range daily {
		z := math.Abs(bucket.Revenue-mean) / stdDev
		if z <= flagZScore {
			continue
		}
		severity := types.SeverityMedium
		if z > highZScore {
			severity = types.SeverityHigh
		}
		findings = append(findings, types.Anomaly{
			Kind:        types.AnomalySales,
			Severity:    severity,
			Day:         bucket.Day,
			Metric:      z,
			Description: fmt.Sprintf("Revenue on %s was %.1f standard deviations from the daily mean.", bucket.Day, z),
		})
	}
	return findings
}

// detectProducts flags top-revenue products ordered often but in small
// per-order quantities, a restocking signal.
func detectProducts(products types.ProductTrend) []types.Anomaly {
	var findings []types.Anomaly
	for _, stat := range products.Top {
		if stat.Orders <= productOrderFloor {
			continue
		}
		perOrder := stat.Quantity / float64(stat.Orders)
		if perOrder >= productQtyPerOrder {
			continue
		}
		findings = append(findings, types.Anomaly{
			Kind:        types.AnomalyProduct,
			Severity:    types.SeverityMedium,
			Metric:      perOrder,
			Subjects:    []string{stat.Key},
			Description: fmt.Sprintf("%s sees high demand (%d orders) with only %.1f units per order; consider restocking.", productLabel(stat), stat.Orders, perOrder),
		})
	}
	return findings
}

// detectCustomers emits one grouped low-severity finding when any customer
// exceeds the trigger count, listing everyone above the list threshold.
func detectCustomers(orders []types.Order) []types.Anomaly {
	counts := make(map[string]int)
	for _, order := range orders {
		if order.CustomerKey != "" {
			counts[order.CustomerKey]++
		}
	}

	triggered := false
	var listed []string
	maxOrders := 0
	for key, count := range counts {
		if count > customerTriggerCount {
			triggered = true
		}
		if count > customerListCount {
			listed = append(listed, key)
		}
		if count > maxOrders {
			maxOrders = count
		}
	}
	if !triggered {
		return nil
	}
	sort.Strings(listed)
	return []types.Anomaly{{
		Kind:        types.AnomalyCustomer,
		Severity:    types.SeverityLow,
		Metric:      float64(maxOrders),
		Subjects:    listed,
		Description: fmt.Sprintf("Unusually high order counts from: %s.", strings.Join(listed, ", ")),
	}}
}

func productLabel(stat types.ProductStat) string {
	if stat.Name != "" {
		return stat.Name
	}
	return stat.Key
}
