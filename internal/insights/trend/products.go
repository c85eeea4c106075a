package trend

import (
	"math"
	"sort"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

const rankSize = 5

// AnalyzeProducts aggregates line items per product (keyed by id, falling
// back to name), ranks by revenue, and computes the concentration ratio:
// the revenue share of the top ceil(20%) of distinct products.
func AnalyzeProducts(orders []types.Order) types.ProductTrend {
	stats := make(map[string]*types.ProductStat)
	for _, order := range orders {
		for _, item := range order.Items {
			key := item.ProductKey
			if key == "" {
				key = item.ProductName
			}
			if key == "" {
				continue
			}
			stat, ok := stats[key]
			if !ok {
				stat = &types.ProductStat{Key: key, Name: item.ProductName}
				stats[key] = stat
			}
			if stat.Name == "" {
				stat.Name = item.ProductName
			}
			stat.Quantity += item.Quantity
			stat.Revenue += item.LineTotal
			stat.Orders++
		}
	}

	ranked := make([]types.ProductStat, 0, len(stats))
	var totalRevenue float64
	for _, stat := range stats {
		ranked = append(ranked, *stat)
		totalRevenue += stat.Revenue
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].Key < ranked[j].Key
	})

	result := types.ProductTrend{Distinct: len(ranked)}
	result.Top = topN(ranked, rankSize)
	result.Bottom = bottomN(ranked, rankSize)

	if totalRevenue > 0 && len(ranked) > 0 {
		topShare := int(math.Ceil(float64(len(ranked)) * 0.2))
		var concentrated float64
		for i := 0; i < topShare && i < len(ranked); i++ {
			concentrated += ranked[i].Revenue
		}
		result.ConcentrationRatio = concentrated / totalRevenue
	}
	return result
}

func topN(ranked []types.ProductStat, n int) []types.ProductStat {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]types.ProductStat, n)
	copy(out, ranked[:n])
	return out
}

func bottomN(ranked []types.ProductStat, n int) []types.ProductStat {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]types.ProductStat, n)
	copy(out, ranked[len(ranked)-n:])
	return out
}
