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

// QueryEngine answers free-text questions. Process never returns an error;
// failures come back as typed error results.
type QueryEngine interface {
	Process(ctx context.Context, question string) types.QueryResult
}

type queryRequest struct {
	Question string `json:"question" validate:"required"`
}

// AssistantQuery serves POST /api/v1/assistant/query. The query timeout
// bounds the whole request; the engine's own handler timeout sits below it.
func AssistantQuery(engine QueryEngine, queryTimeout time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var payload queryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ctx, cancel := context.WithTimeout(ctx, queryTimeout)
		defer cancel()

		result := engine.Process(ctx, payload.Question)
		responses.WriteSuccessStatus(w, statusFor(result), result)
	}
}

// statusFor maps an error result back to the HTTP status of its code so
// callers can branch without parsing the answer text.
func statusFor(result types.QueryResult) int {
	if result.Type != types.QueryResultError {
		return http.StatusOK
	}
	data, ok := result.Data.(map[string]string)
	if !ok {
		return http.StatusOK
	}
	return pkgerrors.MetadataFor(pkgerrors.Code(data["code"])).HTTPStatus
}
