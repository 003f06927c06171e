package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/zenidr/todo-cognito-api/internal/observability"
)

// Metrics returns a middleware that records a request counter and a latency
// histogram per matched route
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			// The pattern is only known once the router has dispatched
			route := routePattern(r)
			observability.HTTPRequestsTotal.WithLabelValues(
				route, r.Method, strconv.Itoa(ww.Status())).Inc()
			observability.HTTPRequestDuration.WithLabelValues(
				route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
