package insights

import (
	"context"
	"net/http"
	"time"

	"github.com/dukaantech/insights-backend/api/responses"
	"github.com/dukaantech/insights-backend/api/validators"
	"github.com/dukaantech/insights-backend/internal/insights/types"
	pkgerrors "github.com/dukaantech/insights-backend/pkg/errors"
	"github.com/dukaantech/insights-backend/pkg/logger"
)

// ReportService is the slice of the report pipeline the controllers need.
type ReportService interface {
	GenerateSalesReport(ctx context.Context, label string) (*types.Report, error)
	GenerateCustomReport(ctx context.Context, start, end time.Time) (*types.Report, error)
	GenerateSummary(ctx context.Context, label string) (*types.Summary, error)
	GenerateForecast(ctx context.Context, period string) (*types.Forecast, error)
	InvalidateCachedReports(ctx context.Context)
}

const dateLayout = "2006-01-02"

type forecastRequest struct {
	Period string `json:"period" validate:"required,oneof=week month"`
}

// SalesReport serves GET /api/v1/reports/sales?range=month. A custom range
// takes explicit start/end dates: ?range=custom&start=2026-03-01&end=2026-03-15
// (end date inclusive).
func SalesReport(service ReportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		report, err := resolveReport(ctx, service, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func resolveReport(ctx context.Context, service ReportService, r *http.Request) (*types.Report, error) {
	label := rangeParam(r)
	if label != "custom" {
		return service.GenerateSalesReport(ctx, label)
	}
	start, err := time.Parse(dateLayout, r.URL.Query().Get("start"))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "custom range requires start=YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, r.URL.Query().Get("end"))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "custom range requires end=YYYY-MM-DD")
	}
	return service.GenerateCustomReport(ctx, start, end.AddDate(0, 0, 1))
}

// SalesSummary serves GET /api/v1/reports/summary?range=month.
func SalesSummary(service ReportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		summary, err := service.GenerateSummary(ctx, rangeParam(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// SalesForecast serves POST /api/v1/reports/forecast.
func SalesForecast(service ReportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var payload forecastRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		projection, err := service.GenerateForecast(ctx, payload.Period)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, projection)
	}
}

func rangeParam(r *http.Request) string {
	label := r.URL.Query().Get("range")
	if label == "" {
		label = "month"
	}
	return label
}
