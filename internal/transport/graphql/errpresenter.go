package graphql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/heartmarshall/lotbid-backend/pkg/ctxutil"
)

// NewErrorPresenter returns a gqlgen error presenter that maps domain errors
// to GraphQL error codes. Bid rejections carry their rejection code and the
// minimum next bid.
func NewErrorPresenter(log *slog.Logger) graphql.ErrorPresenterFunc {
	return func(ctx context.Context, err error) *gqlerror.Error {
		gqlErr := graphql.DefaultErrorPresenter(ctx, err)

		var (
			rejected *domain.BidRejectedError
			invalid  *domain.ValidationError
			query    *gqlerror.Error
		)

		switch {
		case errors.As(err, &query):
			// Already shaped by the executor.

		case errors.As(err, &rejected):
			gqlErr.Message = rejected.Reason
			gqlErr.Extensions = map[string]interface{}{"code": rejected.Code.String()}
			if rejected.Minimum != nil {
				gqlErr.Extensions["minimum"] = rejected.Minimum.StringFixed(2)
			}

		case errors.As(err, &invalid):
			fields := make([]map[string]string, 0, len(invalid.Errors))
			for _, fe := range invalid.Errors {
				fields = append(fields, map[string]string{"field": fe.Field, "message": fe.Message})
			}
			gqlErr.Message = "validation error"
			gqlErr.Extensions = map[string]interface{}{"code": "VALIDATION", "fields": fields}

		case errors.Is(err, domain.ErrNotFound):
			gqlErr.Message = "not found"
			gqlErr.Extensions = map[string]interface{}{"code": "NOT_FOUND"}

		case errors.Is(err, domain.ErrValidation):
			gqlErr.Extensions = map[string]interface{}{"code": "VALIDATION"}

		case errors.Is(err, domain.ErrUnauthorized):
			gqlErr.Message = "authentication required"
			gqlErr.Extensions = map[string]interface{}{"code": "UNAUTHENTICATED"}

		case errors.Is(err, domain.ErrForbidden):
			gqlErr.Message = "forbidden"
			gqlErr.Extensions = map[string]interface{}{"code": "FORBIDDEN"}

		case errors.Is(err, domain.ErrConflict):
			gqlErr.Message = "the item changed concurrently, please retry"
			gqlErr.Extensions = map[string]interface{}{"code": "CONFLICT"}

		default:
			log.ErrorContext(ctx, "unexpected GraphQL error",
				slog.String("error", err.Error()),
				slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
			)
			gqlErr.Message = "internal error"
			gqlErr.Extensions = map[string]interface{}{"code": "INTERNAL"}
		}

		return gqlErr
	}
}
