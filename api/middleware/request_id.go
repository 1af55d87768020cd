package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tidyops/tidyops-backend/pkg/logger"
)

const (
	requestIDHeader  = "X-Request-Id"
	maxRequestIDSize = 64
)

// RequestID tags every request with an id, honoring an inbound header so
// ids survive proxy hops, and scopes the logger to it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" || len(reqID) > maxRequestIDSize {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
