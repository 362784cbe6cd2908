package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	platformobservability "github.com/shestoi/GoBigTech/platform/observability"
	"github.com/shestoi/GoBigTech/services/storefront/internal/reqctx"
)

// HeaderRequestID - заголовок с идентификатором запроса
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen ограничивает длину id, пришедшего от клиента
const maxRequestIDLen = 128

// RequestID - HTTP middleware: берёт X-Request-ID из запроса или генерирует UUID,
// возвращает его в ответе, кладёт в context и добавляет в logger запроса.
func RequestID(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)

			ctx := reqctx.WithRequestID(r.Context(), id)
			reqLogger := platformobservability.LoggerFromContext(ctx, logger).With(zap.String("request_id", id))
			ctx = platformobservability.WithLogger(ctx, reqLogger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
