package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukaantech/insights-backend/api/controllers"
	insightscontrollers "github.com/dukaantech/insights-backend/api/controllers/insights"
	"github.com/dukaantech/insights-backend/api/middleware"
	"github.com/dukaantech/insights-backend/pkg/config"
	"github.com/dukaantech/insights-backend/pkg/logger"
)

// NewRouter assembles the HTTP surface: health probes, the Prometheus
// endpoint, report generation and the assistant.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	deps map[string]controllers.Pinger,
	reportService insightscontrollers.ReportService,
	queryEngine insightscontrollers.QueryEngine,
	importer insightscontrollers.OrderImporter,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", insightscontrollers.SalesReport(reportService, logg))
			r.Get("/summary", insightscontrollers.SalesSummary(reportService, logg))
			r.Post("/forecast", insightscontrollers.SalesForecast(reportService, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/import", insightscontrollers.ImportOrders(importer, reportService, logg))
		})
		r.Route("/assistant", func(r chi.Router) {
			r.Post("/query", insightscontrollers.AssistantQuery(queryEngine, cfg.Engine.QueryTimeout, logg))
		})
	})

	return r
}
