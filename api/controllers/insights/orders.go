package insights

import (
	"context"
	"net/http"
	"time"

	"github.com/dukaantech/insights-backend/api/responses"
	"github.com/dukaantech/insights-backend/api/validators"
	"github.com/dukaantech/insights-backend/pkg/logger"
)

// OrderImporter persists raw storefront order records. Records arrive in
// either the legacy single-product or the multi-item shape; normalization
// happens at the store boundary.
type OrderImporter interface {
	ImportRaw(ctx context.Context, raw []map[string]any, now time.Time) (int, error)
}

type importRequest struct {
	Orders []map[string]any `json:"orders" validate:"required,min=1"`
}

// ImportOrders serves POST /api/v1/orders/import. Cached reports are
// dropped after a successful import so they cannot serve stale data.
func ImportOrders(importer OrderImporter, reports ReportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var payload importRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		count, err := importer.ImportRaw(ctx, payload.Orders, time.Now().UTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		reports.InvalidateCachedReports(ctx)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int{"imported": count})
	}
}
