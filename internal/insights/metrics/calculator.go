// Package metrics aggregates the canonical order set into the raw numbers
// every other engine component consumes.
package metrics

import (
	"sort"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

const dayKeyLayout = "2006-01-02"

// Compute aggregates totals, averages, the status breakdown, daily buckets
// and the peak day for the supplied orders. TotalRevenue sums every order
// regardless of status; CompletedRevenue counts only revenue-eligible ones.
func Compute(orders []types.Order) types.Metrics {
	m := types.Metrics{
		TotalOrders:     len(orders),
		StatusBreakdown: make(map[types.OrderStatus]int),
	}

	buckets := make(map[string]*types.DailyBucket)
	converted := 0

	for _, order := range orders {
		m.TotalRevenue += order.TotalAmount
		if order.Status.RevenueEligible() {
			m.CompletedRevenue += order.TotalAmount
		}
		m.StatusBreakdown[order.Status]++
		if order.Status == types.StatusDelivered || order.Status == "completed" {
			converted++
		}

		day := order.Timestamp.UTC().Format(dayKeyLayout)
		bucket, ok := buckets[day]
		if !ok {
			bucket = &types.DailyBucket{Day: day}
			buckets[day] = bucket
		}
		bucket.Orders++
		bucket.Revenue += order.TotalAmount
		for _, item := range order.Items {
			bucket.Items += item.Quantity
		}
	}

	if m.TotalOrders > 0 {
		m.AverageOrderValue = m.TotalRevenue / float64(m.TotalOrders)
		m.ConversionRate = float64(converted) / float64(m.TotalOrders)
	}

	m.Daily = sortedBuckets(buckets)
	m.PeakDay = peakDay(m.Daily)
	return m
}

func sortedBuckets(buckets map[string]*types.DailyBucket) []types.DailyBucket {
	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]types.DailyBucket, 0, len(days))
	for _, day := range days {
		out = append(out, *buckets[day])
	}
	return out
}

// peakDay returns the bucket with the most orders. Ties go to the higher
// revenue, then the earliest calendar day; nil when there are no non-empty
// buckets.
func peakDay(daily []types.DailyBucket) *types.DailyBucket {
	var peak *types.DailyBucket
	for i := range daily {
		if daily[i].Orders == 0 {
			continue
		}
		switch {
		case peak == nil,
			daily[i].Orders > peak.Orders,
			daily[i].Orders == peak.Orders && daily[i].Revenue > peak.Revenue:
			peak = &daily[i]
		}
	}
	if peak == nil {
		return nil
	}
	copied := *peak
	return &copied
}
