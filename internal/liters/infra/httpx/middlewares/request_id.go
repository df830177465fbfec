package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/tiendanube-liters/internal/pkg/reqctx"
)

// AttachRequestID copies chi's request id onto the context key read by the
// logger and the upstream client, and echoes it back to the caller.
func AttachRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set(reqctx.HeaderXRequestId, requestID)
		}

		ctx := reqctx.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
