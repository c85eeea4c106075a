// Package report orchestrates the analytics pipeline: fetch orders for a
// window, run metrics, trends, anomaly detection and forecasting, then
// attach the narrative summary. Every call builds a fresh Report; the
// optional cache only short-circuits recomputation.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukaantech/insights-backend/internal/insights/anomaly"
	"github.com/dukaantech/insights-backend/internal/insights/forecast"
	"github.com/dukaantech/insights-backend/internal/insights/metrics"
	"github.com/dukaantech/insights-backend/internal/insights/narrative"
	"github.com/dukaantech/insights-backend/internal/insights/trend"
	"github.com/dukaantech/insights-backend/internal/insights/types"
	apperrors "github.com/dukaantech/insights-backend/pkg/errors"
	"github.com/dukaantech/insights-backend/pkg/logger"
	enginemetrics "github.com/dukaantech/insights-backend/pkg/metrics"
)

// OrderSource loads canonical orders for a half-open [start, end) window.
type OrderSource interface {
	FetchRange(ctx context.Context, start, end time.Time) ([]types.Order, error)
}

// Cache is the advisory report cache. A nil Cache disables caching;
// GetReport returns (nil, nil) on a miss.
type Cache interface {
	GetReport(ctx context.Context, label string) ([]byte, error)
	SetReport(ctx context.Context, label string, payload []byte, ttl time.Duration) error
	InvalidateReport(ctx context.Context, label string) error
}

// cachedLabels are the windows the cache may hold; custom windows never
// cache, so invalidating these covers everything.
var cachedLabels = []string{
	RangeToday, RangeYesterday, RangeWeek, RangeLastWeek,
	RangeMonth, RangeLastMonth, RangeQuarter, RangeYear,
}

// Service builds sales reports, summaries and forecasts.
type Service struct {
	source   OrderSource
	cache    Cache
	cacheTTL time.Duration
	logg     *logger.Logger
	metrics  *enginemetrics.EngineMetrics
	now      func() time.Time
}

// NewService wires the report pipeline. cache may be nil.
func NewService(source OrderSource, cache Cache, cacheTTL time.Duration, logg *logger.Logger, em *enginemetrics.EngineMetrics) *Service {
	return &Service{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
		metrics:  em,
		now:      time.Now,
	}
}

// GenerateSalesReport runs the full pipeline for the labeled range. Cache
// hits are served as-is; cache failures are logged and never surfaced.
func (s *Service) GenerateSalesReport(ctx context.Context, label string) (*types.Report, error) {
	now := s.now().UTC()
	window, err := ResolveRange(label, now)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithRange(ctx, window.Label)

	if cached := s.fromCache(ctx, window.Label); cached != nil {
		return cached, nil
	}

	started := time.Now()
	report, err := s.build(ctx, window, now)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveReportDuration(window.Label, time.Since(started))

	s.toCache(ctx, window.Label, report)
	return report, nil
}

// GenerateCustomReport runs the pipeline for an explicit window. Custom
// windows bypass the cache since their label keyspace is unbounded.
func (s *Service) GenerateCustomReport(ctx context.Context, start, end time.Time) (*types.Report, error) {
	window, err := CustomRange(start, end)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithRange(ctx, window.Label)

	started := time.Now()
	report, err := s.build(ctx, window, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveReportDuration(window.Label, time.Since(started))
	return report, nil
}

// GenerateSummary returns only the narrative portion of a report.
func (s *Service) GenerateSummary(ctx context.Context, label string) (*types.Summary, error) {
	report, err := s.GenerateSalesReport(ctx, label)
	if err != nil {
		return nil, err
	}
	return report.Summary, nil
}

// GenerateForecast projects revenue and product demand for the period
// ("week" or "month") using the trailing month of history.
func (s *Service) GenerateForecast(ctx context.Context, period string) (*types.Forecast, error) {
	switch period {
	case forecast.PeriodWeek, forecast.PeriodMonth:
	default:
		return nil, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown forecast period %q", period))
	}

	now := s.now().UTC()
	window, err := ResolveRange(RangeMonth, now)
	if err != nil {
		return nil, err
	}
	orders, err := s.fetch(ctx, window)
	if err != nil {
		return nil, err
	}

	m := metrics.Compute(orders)
	projection := forecast.Sales(m.Daily, period)
	projection.Products = forecast.ProductDemand(orders, period)
	return &projection, nil
}

func (s *Service) build(ctx context.Context, window types.DateRange, now time.Time) (*types.Report, error) {
	orders, err := s.fetch(ctx, window)
	if err != nil {
		return nil, err
	}

	m := metrics.Compute(orders)
	products := trend.AnalyzeProducts(orders)

	report := &types.Report{
		ReportID:    newReportID(now),
		Range:       window,
		GeneratedAt: now,
		Metrics:     m,
		Sales:       trend.AnalyzeSales(m.Daily),
		Products:    products,
		Customers:   trend.AnalyzeCustomers(orders),
		Seasonality: trend.AnalyzeSeasonality(m.Daily),
		Hourly:      trend.AnalyzeHourly(orders),
		Anomalies:   anomaly.Detect(m, products, orders),
	}

	s.attachPriorRevenue(ctx, report, window)
	report.Summary = narrative.Generate(report, now)

	ctx = s.logg.WithReportID(ctx, report.ReportID)
	s.logg.Info(ctx, fmt.Sprintf("report built: %d orders, %d anomalies", m.TotalOrders, len(report.Anomalies)))
	return report, nil
}

// attachPriorRevenue fetches the preceding window for growth comparison.
// A failure here degrades the growth sentence, not the report.
func (s *Service) attachPriorRevenue(ctx context.Context, report *types.Report, window types.DateRange) {
	prior := PriorRange(window)
	orders, err := s.source.FetchRange(ctx, prior.Start, prior.End)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("prior window fetch failed, skipping growth comparison: %v", err))
		return
	}
	if len(orders) == 0 {
		return
	}
	priorMetrics := metrics.Compute(orders)
	report.PriorRevenue = priorMetrics.TotalRevenue
	report.HasPriorData = true
}

func (s *Service) fetch(ctx context.Context, window types.DateRange) ([]types.Order, error) {
	orders, err := s.source.FetchRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading orders")
	}
	return orders, nil
}

// InvalidateCachedReports drops every cached window. Called after new
// orders land so stale reports do not outlive the data change; failures
// are logged, since the cache is advisory.
func (s *Service) InvalidateCachedReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, label := range cachedLabels {
		if err := s.cache.InvalidateReport(ctx, label); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("report cache invalidation failed for %s: %v", label, err))
		}
	}
}

func (s *Service) fromCache(ctx context.Context, label string) *types.Report {
	if s.cache == nil {
		return nil
	}
	payload, err := s.cache.GetReport(ctx, label)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("report cache read failed: %v", err))
		return nil
	}
	if payload == nil {
		s.metrics.IncCacheMiss()
		return nil
	}
	var report types.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("report cache entry corrupt, discarding: %v", err))
		return nil
	}
	s.metrics.IncCacheHit()
	return &report
}

func (s *Service) toCache(ctx context.Context, label string, report *types.Report) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("report cache encode failed: %v", err))
		return
	}
	if err := s.cache.SetReport(ctx, label, payload, s.cacheTTL); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("report cache write failed: %v", err))
	}
}

func newReportID(now time.Time) string {
	return fmt.Sprintf("rpt-%s-%s", now.Format("20060102150405"), uuid.NewString()[:8])
}
