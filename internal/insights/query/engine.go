// Package query answers free-text merchant questions. Classification is a
// deterministic keyword decision list, not a language model: the first
// matching rule names the intent and the matching handler renders an
// answer from a freshly built report. The engine never panics outward;
// every failure mode is a typed error result.
package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dukaantech/insights-backend/internal/insights/forecast"
	"github.com/dukaantech/insights-backend/internal/insights/narrative"
	"github.com/dukaantech/insights-backend/internal/insights/types"
	apperrors "github.com/dukaantech/insights-backend/pkg/errors"
	"github.com/dukaantech/insights-backend/pkg/logger"
	enginemetrics "github.com/dukaantech/insights-backend/pkg/metrics"
)

// Questions longer than this are rejected before classification.
const maxQuestionLength = 200

const helpText = "I can answer questions about top products, sales for a period, " +
	"customer insights, revenue analysis, and forecasts. " +
	`Try asking "What were my top products this month?" or "Show me sales for last week."`

// ReportProvider is the slice of the report service the engine needs.
type ReportProvider interface {
	GenerateSalesReport(ctx context.Context, label string) (*types.Report, error)
	GenerateForecast(ctx context.Context, period string) (*types.Forecast, error)
}

// Engine classifies and answers one question at a time. A mutex guards the
// pipeline: a second concurrent question gets a busy result instead of
// queueing behind the first.
type Engine struct {
	provider       ReportProvider
	logg           *logger.Logger
	metrics        *enginemetrics.EngineMetrics
	handlerTimeout time.Duration
	mu             sync.Mutex
}

// NewEngine wires the assistant. handlerTimeout bounds a single answer
// computation and is expected to sit below the route-level query timeout.
func NewEngine(provider ReportProvider, handlerTimeout time.Duration, logg *logger.Logger, em *enginemetrics.EngineMetrics) *Engine {
	return &Engine{
		provider:       provider,
		logg:           logg,
		metrics:        em,
		handlerTimeout: handlerTimeout,
	}
}

// Process answers one question. It always returns a result, never an error:
// validation failures, contention, timeouts and downstream faults all come
// back as typed error results with a human-readable message.
func (e *Engine) Process(ctx context.Context, question string) types.QueryResult {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return e.finish(errorResult(apperrors.CodeValidation, "", "Please ask a question, for example: \"What were my top products this month?\""))
	}
	if len(trimmed) > maxQuestionLength {
		return e.finish(errorResult(apperrors.CodeValidation, "", fmt.Sprintf("That question is too long; please keep it under %d characters.", maxQuestionLength)))
	}

	if !e.mu.TryLock() {
		return e.finish(errorResult(apperrors.CodeBusy, "", apperrors.MetadataFor(apperrors.CodeBusy).PublicMessage))
	}
	defer e.mu.Unlock()

	parsed := classify(trimmed)
	ctx = e.logg.WithIntent(ctx, parsed.Intent)

	if parsed.Intent == IntentUnknown {
		return e.finish(types.QueryResult{
			Type:       types.QueryResultAnswer,
			Intent:     IntentUnknown,
			Confidence: parsed.Confidence,
			Text:       helpText,
		})
	}
	return e.finish(e.dispatch(ctx, parsed))
}

// dispatch runs the intent handler under the handler timeout. The handler
// goroutine owns the result channel; on timeout its eventual result is
// dropped on the buffered channel and garbage collected.
func (e *Engine) dispatch(ctx context.Context, parsed classification) types.QueryResult {
	ctx, cancel := context.WithTimeout(ctx, e.handlerTimeout)
	defer cancel()

	done := make(chan types.QueryResult, 1)
	go func() {
		done <- e.answer(ctx, parsed)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		e.logg.Warn(ctx, fmt.Sprintf("query handler exceeded %s", e.handlerTimeout))
		return errorResult(apperrors.CodeTimeout, parsed.Intent, apperrors.MetadataFor(apperrors.CodeTimeout).PublicMessage)
	}
}

func (e *Engine) answer(ctx context.Context, parsed classification) types.QueryResult {
	var (
		result types.QueryResult
		err    error
	)
	switch parsed.Intent {
	case IntentTopProducts:
		result, err = e.answerTopProducts(ctx, parsed)
	case IntentSalesPeriod:
		result, err = e.answerSalesPeriod(ctx, parsed)
	case IntentCustomerInsights:
		result, err = e.answerCustomers(ctx, parsed)
	case IntentRevenueAnalysis:
		result, err = e.answerRevenue(ctx, parsed)
	case IntentForecast:
		result, err = e.answerForecast(ctx, parsed)
	default:
		return errorResult(apperrors.CodeInternal, parsed.Intent, "I could not route that question.")
	}
	if err != nil {
		e.logg.Error(ctx, "query handler failed", err)
		code := apperrors.CodeInternal
		if typed := apperrors.As(err); typed != nil {
			code = typed.Code()
		}
		return errorResult(code, parsed.Intent, "Something went wrong answering that; please try again.")
	}
	result.Type = types.QueryResultAnswer
	result.Intent = parsed.Intent
	result.Confidence = parsed.Confidence
	return result
}

func (e *Engine) answerTopProducts(ctx context.Context, parsed classification) (types.QueryResult, error) {
	rpt, err := e.provider.GenerateSalesReport(ctx, parsed.Period)
	if err != nil {
		return types.QueryResult{}, err
	}
	top := rpt.Products.Top
	if len(top) == 0 {
		return types.QueryResult{Text: fmt.Sprintf("No product sales were recorded for %s.", periodLabel(parsed.Period))}, nil
	}
	if len(top) > parsed.Count {
		top = top[:parsed.Count]
	}
	lines := make([]string, 0, len(top))
	for i, product := range top {
		lines = append(lines, fmt.Sprintf("%d. %s (%s, %.0f sold)", i+1, productName(product), narrative.FormatCurrency(product.Revenue), product.Quantity))
	}
	text := fmt.Sprintf("Your top %d product(s) for %s: %s.", len(top), periodLabel(parsed.Period), strings.Join(lines, "; "))
	return types.QueryResult{Text: text, Data: top}, nil
}

func (e *Engine) answerSalesPeriod(ctx context.Context, parsed classification) (types.QueryResult, error) {
	rpt, err := e.provider.GenerateSalesReport(ctx, parsed.Period)
	if err != nil {
		return types.QueryResult{}, err
	}
	m := rpt.Metrics
	if m.TotalOrders == 0 {
		return types.QueryResult{Text: fmt.Sprintf("No orders were recorded for %s.", periodLabel(parsed.Period)), Data: m}, nil
	}
	text := fmt.Sprintf("You had %d order(s) totalling %s for %s, with an average order value of %s.",
		m.TotalOrders, narrative.FormatCurrency(m.TotalRevenue), periodLabel(parsed.Period), narrative.FormatCurrency(m.AverageOrderValue))
	if m.PeakDay != nil {
		text += fmt.Sprintf(" Your busiest day was %s with %d order(s).", m.PeakDay.Day, m.PeakDay.Orders)
	}
	return types.QueryResult{Text: text, Data: m}, nil
}

func (e *Engine) answerCustomers(ctx context.Context, parsed classification) (types.QueryResult, error) {
	rpt, err := e.provider.GenerateSalesReport(ctx, parsed.Period)
	if err != nil {
		return types.QueryResult{}, err
	}
	customers := rpt.Customers
	if customers.Unique == 0 {
		return types.QueryResult{Text: fmt.Sprintf("No customer activity was recorded for %s.", periodLabel(parsed.Period)), Data: customers}, nil
	}
	text := fmt.Sprintf("You served %d unique customer(s) for %s; %.0f%% of them ordered more than once, and acquisition is %s.",
		customers.Unique, periodLabel(parsed.Period), customers.RepeatRate*100, string(customers.AcquisitionTrend))
	return types.QueryResult{Text: text, Data: customers}, nil
}

func (e *Engine) answerRevenue(ctx context.Context, parsed classification) (types.QueryResult, error) {
	rpt, err := e.provider.GenerateSalesReport(ctx, parsed.Period)
	if err != nil {
		return types.QueryResult{}, err
	}
	m := rpt.Metrics
	text := fmt.Sprintf("Revenue for %s was %s across %d order(s), of which %s is from completed orders. %s",
		periodLabel(parsed.Period), narrative.FormatCurrency(m.TotalRevenue), m.TotalOrders,
		narrative.FormatCurrency(m.CompletedRevenue), rpt.Sales.Description)
	return types.QueryResult{Text: strings.TrimSpace(text), Data: m}, nil
}

func (e *Engine) answerForecast(ctx context.Context, parsed classification) (types.QueryResult, error) {
	projection, err := e.provider.GenerateForecast(ctx, forecastPeriod(parsed.Period))
	if err != nil {
		return types.QueryResult{}, err
	}
	if projection.Note != "" {
		return types.QueryResult{Text: projection.Note, Data: projection}, nil
	}
	text := fmt.Sprintf("Projected revenue for the next %s is %s (between %s and %s, %s confidence).",
		projection.Period, narrative.FormatCurrency(projection.Value),
		narrative.FormatCurrency(projection.Low), narrative.FormatCurrency(projection.High), projection.Confidence)
	return types.QueryResult{Text: text, Data: projection}, nil
}

func (e *Engine) finish(result types.QueryResult) types.QueryResult {
	e.metrics.IncQuery(result.Intent, result.Type)
	return result
}

func errorResult(code apperrors.Code, intent, text string) types.QueryResult {
	return types.QueryResult{
		Type:   types.QueryResultError,
		Intent: intent,
		Text:   text,
		Data:   map[string]string{"code": string(code)},
	}
}

// forecastPeriod narrows a range label to a forecast horizon.
func forecastPeriod(rangeLabel string) string {
	if strings.Contains(rangeLabel, "week") {
		return forecast.PeriodWeek
	}
	return forecast.PeriodMonth
}

func periodLabel(rangeLabel string) string {
	return strings.ReplaceAll(rangeLabel, "_", " ")
}

func productName(product types.ProductStat) string {
	if product.Name != "" {
		return product.Name
	}
	return product.Key
}
