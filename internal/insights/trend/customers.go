package trend

import (
	"fmt"
	"sort"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

const topSpenderCount = 5

// Relative-change deadband for the acquisition classification.
const acquisitionDeadband = 0.10

// AnalyzeCustomers buckets orders into week-of-month keys, tracks per
// customer lifetime counts, and classifies acquisition by comparing the
// first and second halves of the weekly unique-customer series with a
// +-10% deadband.
func AnalyzeCustomers(orders []types.Order) types.CustomerTrend {
	stats := make(map[string]*types.CustomerStat)
	weekly := make(map[string]map[string]struct{})

	for _, order := range orders {
		key := order.CustomerKey
		if key == "" {
			continue
		}
		stat, ok := stats[key]
		if !ok {
			stat = &types.CustomerStat{Key: key, FirstOrder: order.Timestamp, LastOrder: order.Timestamp}
			stats[key] = stat
		}
		stat.Orders++
		stat.Revenue += order.TotalAmount
		if order.Timestamp.Before(stat.FirstOrder) {
			stat.FirstOrder = order.Timestamp
		}
		if order.Timestamp.After(stat.LastOrder) {
			stat.LastOrder = order.Timestamp
		}

		week := weekKey(order)
		if weekly[week] == nil {
			weekly[week] = make(map[string]struct{})
		}
		weekly[week][key] = struct{}{}
	}

	result := types.CustomerTrend{Unique: len(stats)}

	repeat := 0
	spenders := make([]types.CustomerStat, 0, len(stats))
	for _, stat := range stats {
		if stat.Orders > 1 {
			repeat++
		}
		spenders = append(spenders, *stat)
	}
	if result.Unique > 0 {
		result.RepeatRate = float64(repeat) / float64(result.Unique)
	}

	sort.Slice(spenders, func(i, j int) bool {
		if spenders[i].Revenue != spenders[j].Revenue {
			return spenders[i].Revenue > spenders[j].Revenue
		}
		return spenders[i].Key < spenders[j].Key
	})
	if len(spenders) > topSpenderCount {
		spenders = spenders[:topSpenderCount]
	}
	result.TopSpenders = spenders

	result.Weekly = sortedWeekly(weekly)
	result.AcquisitionTrend = classifyAcquisition(result.Weekly)
	return result
}

// weekKey formats {year}-{month:02}-W{weekOfMonth}.
func weekKey(order types.Order) string {
	ts := order.Timestamp.UTC()
	weekOfMonth := (ts.Day()-1)/7 + 1
	return fmt.Sprintf("%d-%02d-W%d", ts.Year(), int(ts.Month()), weekOfMonth)
}

func sortedWeekly(weekly map[string]map[string]struct{}) []types.WeekCount {
	weeks := make([]string, 0, len(weekly))
	for week := range weekly {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)

	out := make([]types.WeekCount, 0, len(weeks))
	for _, week := range weeks {
		out = append(out, types.WeekCount{Week: week, Customers: len(weekly[week])})
	}
	return out
}

func classifyAcquisition(weekly []types.WeekCount) types.TrendDirection {
	if len(weekly) < 2 {
		return types.TrendInsufficientData
	}

	half := len(weekly) / 2
	var firstSum, secondSum float64
	for i, wc := range weekly {
		if i < half {
			firstSum += float64(wc.Customers)
		} else {
			secondSum += float64(wc.Customers)
		}
	}
	firstMean := firstSum / float64(half)
	secondMean := secondSum / float64(len(weekly)-half)

	if firstMean == 0 {
		if secondMean > 0 {
			return types.TrendIncreasing
		}
		return types.TrendStable
	}

	change := (secondMean - firstMean) / firstMean
	switch {
	case change > acquisitionDeadband:
		return types.TrendIncreasing
	case change < -acquisitionDeadband:
		return types.TrendDecreasing
	default:
		return types.TrendStable
	}
}
