package report

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dukaantech/insights-backend/internal/insights/types"
	"github.com/dukaantech/insights-backend/pkg/logger"
)

type stubSource struct {
	orders  []types.Order
	prior   []types.Order
	failAll bool
	calls   []string
}

func (s *stubSource) FetchRange(_ context.Context, start, end time.Time) ([]types.Order, error) {
	s.calls = append(s.calls, start.Format("2006-01-02")+".."+end.Format("2006-01-02"))
	if s.failAll {
		return nil, errors.New("store unavailable")
	}
	var out []types.Order
	for _, order := range append(append([]types.Order{}, s.orders...), s.prior...) {
		if !order.Timestamp.Before(start) && order.Timestamp.Before(end) {
			out = append(out, order)
		}
	}
	return out, nil
}

type memoryCache struct {
	entries map[string][]byte
	failGet bool
}

func (m *memoryCache) GetReport(_ context.Context, label string) ([]byte, error) {
	if m.failGet {
		return nil, errors.New("cache down")
	}
	payload, ok := m.entries[label]
	if !ok {
		return nil, nil
	}
	return payload, nil
}

func (m *memoryCache) SetReport(_ context.Context, label string, payload []byte, _ time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[label] = payload
	return nil
}

func (m *memoryCache) InvalidateReport(_ context.Context, label string) error {
	delete(m.entries, label)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func fixedClock() time.Time {
	return time.Date(2026, time.March, 19, 12, 0, 0, 0, time.UTC)
}

func weekOrders(now time.Time) []types.Order {
	amounts := []float64{100, 100, 100, 100, 100, 100, 400}
	orders := make([]types.Order, 0, len(amounts))
	for i, amount := range amounts {
		orders = append(orders, types.Order{
			ID:          "o" + string(rune('1'+i)),
			Timestamp:   now.AddDate(0, 0, -(len(amounts) - 1 - i)),
			Status:      types.StatusDelivered,
			CustomerKey: "c1",
			TotalAmount: amount,
			Items: []types.LineItem{{
				ProductKey: "p1", ProductName: "Widget", Quantity: 1, UnitPrice: amount, LineTotal: amount,
			}},
		})
	}
	return orders
}

func newTestService(source *stubSource, cache Cache) *Service {
	svc := NewService(source, cache, time.Minute, testLogger(), nil)
	svc.now = fixedClock
	return svc
}

func TestGenerateSalesReportBuildsFullReport(t *testing.T) {
	source := &stubSource{orders: weekOrders(fixedClock())}
	svc := newTestService(source, nil)

	report, err := svc.GenerateSalesReport(context.Background(), "month")
	if err != nil {
		t.Fatalf("generate report: %v", err)
	}
	if report.ReportID == "" || report.Summary == nil {
		t.Fatalf("expected populated report, got %+v", report)
	}
	if report.Metrics.TotalOrders != 7 {
		t.Fatalf("expected 7 orders, got %d", report.Metrics.TotalOrders)
	}
	if report.Metrics.TotalRevenue != 1000 {
		t.Fatalf("expected revenue 1000, got %f", report.Metrics.TotalRevenue)
	}
	// Two fetches: current window plus the prior window for growth.
	if len(source.calls) != 2 {
		t.Fatalf("expected 2 fetches, got %v", source.calls)
	}
}

func TestGenerateSalesReportUsesCache(t *testing.T) {
	source := &stubSource{orders: weekOrders(fixedClock())}
	cache := &memoryCache{}
	svc := newTestService(source, cache)

	first, err := svc.GenerateSalesReport(context.Background(), "month")
	if err != nil {
		t.Fatalf("first report: %v", err)
	}
	fetches := len(source.calls)

	second, err := svc.GenerateSalesReport(context.Background(), "month")
	if err != nil {
		t.Fatalf("second report: %v", err)
	}
	if len(source.calls) != fetches {
		t.Fatalf("cache hit should not refetch orders")
	}
	if second.ReportID != first.ReportID {
		t.Fatalf("cached report should be served verbatim")
	}
}

func TestGenerateSalesReportSurvivesCacheFailure(t *testing.T) {
	source := &stubSource{orders: weekOrders(fixedClock())}
	svc := newTestService(source, &memoryCache{failGet: true})

	if _, err := svc.GenerateSalesReport(context.Background(), "month"); err != nil {
		t.Fatalf("cache failure must not surface: %v", err)
	}
}

func TestGenerateSalesReportPropagatesSourceFailure(t *testing.T) {
	svc := newTestService(&stubSource{failAll: true}, nil)
	if _, err := svc.GenerateSalesReport(context.Background(), "month"); err == nil {
		t.Fatalf("expected source error")
	}
}

func TestInvalidateCachedReportsDropsEntries(t *testing.T) {
	source := &stubSource{orders: weekOrders(fixedClock())}
	cache := &memoryCache{}
	svc := newTestService(source, cache)

	if _, err := svc.GenerateSalesReport(context.Background(), "month"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(cache.entries) == 0 {
		t.Fatal("expected a cached report before invalidation")
	}

	svc.InvalidateCachedReports(context.Background())
	if len(cache.entries) != 0 {
		t.Fatalf("expected empty cache, got %v", cache.entries)
	}

	// A nil cache is a no-op, not a panic.
	newTestService(source, nil).InvalidateCachedReports(context.Background())
}

func TestGenerateCustomReportBypassesCache(t *testing.T) {
	now := fixedClock()
	source := &stubSource{orders: weekOrders(now)}
	cache := &memoryCache{}
	svc := newTestService(source, cache)

	start := now.AddDate(0, 0, -7)
	report, err := svc.GenerateCustomReport(context.Background(), start, now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("custom report: %v", err)
	}
	if report.Range.Label != "custom" {
		t.Fatalf("expected custom label, got %s", report.Range.Label)
	}
	if report.Metrics.TotalOrders != 7 {
		t.Fatalf("expected 7 orders, got %d", report.Metrics.TotalOrders)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("custom windows must not be cached, got %v", cache.entries)
	}
}

func TestGenerateCustomReportRejectsInvertedWindow(t *testing.T) {
	svc := newTestService(&stubSource{}, nil)
	now := fixedClock()
	if _, err := svc.GenerateCustomReport(context.Background(), now, now.AddDate(0, 0, -1)); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGenerateForecastRejectsUnknownPeriod(t *testing.T) {
	svc := newTestService(&stubSource{}, nil)
	if _, err := svc.GenerateForecast(context.Background(), "decade"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestGenerateForecastWithSparseHistory(t *testing.T) {
	now := fixedClock()
	source := &stubSource{orders: []types.Order{{
		ID: "o1", Timestamp: now, Status: types.StatusDelivered, TotalAmount: 150,
	}}}
	svc := newTestService(source, nil)

	projection, err := svc.GenerateForecast(context.Background(), "week")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if projection.Value != 0 || projection.Confidence != "low" {
		t.Fatalf("sparse history should yield zero low-confidence forecast, got %+v", projection)
	}
	if projection.Note == "" {
		t.Fatalf("sparse forecast should carry an explanatory note")
	}
}

func TestGenerateSummaryEmptyWindow(t *testing.T) {
	svc := newTestService(&stubSource{}, nil)
	summary, err := svc.GenerateSummary(context.Background(), "week")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary == nil || summary.Text == "" {
		t.Fatalf("expected the no-data summary sentence")
	}
}
