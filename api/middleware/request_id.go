package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an identifier. An inbound X-Request-Id
// from a proxy or retrying client is kept so pricing and invoice calls can
// be traced across services; otherwise one is minted. The identifier is
// echoed back on the response and attached to the request's log context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, requestID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
