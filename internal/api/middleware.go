package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pisfinance/pis-vault/internal/observability/metrics"
	"github.com/pisfinance/pis-vault/internal/observability/tracing"
)

const traceHeader = "X-Trace-Id"

// traceMiddleware attaches a trace id to the request context, reusing the
// one sent by the client.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(traceHeader); id != "" {
			ctx = tracing.WithTraceID(ctx, id)
		} else {
			ctx = tracing.InjectTraceID(ctx)
		}
		w.Header().Set(traceHeader, tracing.TraceID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// the pattern is only known once routing is done
		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHttpRequestDuration(time.Since(start), r.Method, route, status)
	})
}
