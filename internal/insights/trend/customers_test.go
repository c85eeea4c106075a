package trend

import (
	"testing"
	"time"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

func customerOrder(key string, day int, amount float64) types.Order {
	return types.Order{
		ID:          "o",
		Timestamp:   time.Date(2026, time.March, day, 12, 0, 0, 0, time.UTC),
		Status:      types.StatusDelivered,
		CustomerKey: key,
		TotalAmount: amount,
	}
}

func TestAnalyzeCustomersRepeatRate(t *testing.T) {
	orders := []types.Order{
		customerOrder("c1", 1, 100),
		customerOrder("c1", 8, 150),
		customerOrder("c2", 2, 200),
		customerOrder("c3", 3, 50),
		customerOrder("c3", 16, 75),
	}

	result := AnalyzeCustomers(orders)
	if result.Unique != 3 {
		t.Fatalf("expected 3 unique customers, got %d", result.Unique)
	}
	if result.RepeatRate < 0.66 || result.RepeatRate > 0.67 {
		t.Fatalf("expected repeat rate 2/3, got %f", result.RepeatRate)
	}
	if result.TopSpenders[0].Key != "c1" {
		t.Fatalf("expected c1 top spender, got %s", result.TopSpenders[0].Key)
	}
}

func TestAnalyzeCustomersWeekKeys(t *testing.T) {
	orders := []types.Order{
		customerOrder("c1", 1, 100),  // week 1
		customerOrder("c2", 8, 100),  // week 2
		customerOrder("c3", 15, 100), // week 3
	}
	result := AnalyzeCustomers(orders)
	if len(result.Weekly) != 3 {
		t.Fatalf("expected 3 week buckets, got %d", len(result.Weekly))
	}
	if result.Weekly[0].Week != "2026-03-W1" {
		t.Fatalf("unexpected week key %s", result.Weekly[0].Week)
	}
}

func TestAnalyzeCustomersAcquisitionTrend(t *testing.T) {
	// One customer in week 1, three new ones in weeks 3 and 4.
	orders := []types.Order{
		customerOrder("c1", 1, 100),
		customerOrder("c2", 15, 100),
		customerOrder("c3", 15, 100),
		customerOrder("c4", 22, 100),
		customerOrder("c5", 22, 100),
	}
	result := AnalyzeCustomers(orders)
	if result.AcquisitionTrend != types.TrendIncreasing {
		t.Fatalf("expected increasing acquisition, got %s", result.AcquisitionTrend)
	}
}

func TestAnalyzeCustomersInsufficientWeeks(t *testing.T) {
	result := AnalyzeCustomers([]types.Order{customerOrder("c1", 1, 100)})
	if result.AcquisitionTrend != types.TrendInsufficientData {
		t.Fatalf("expected insufficient_data, got %s", result.AcquisitionTrend)
	}
}

func TestAnalyzeCustomersSkipsAnonymousOrders(t *testing.T) {
	orders := []types.Order{
		customerOrder("", 1, 100),
		customerOrder("c1", 2, 100),
	}
	result := AnalyzeCustomers(orders)
	if result.Unique != 1 {
		t.Fatalf("anonymous orders must not count, got %d unique", result.Unique)
	}
}
