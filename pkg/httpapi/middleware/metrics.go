package middleware

import (
	"net/http"
	"time"

	"metaweb/console/pkg/telemetry/metrics"
)

// MetricsMiddleware records request count and duration per method and
// route pattern. The registered pattern is used instead of the raw URL so
// path parameters do not explode label cardinality.
func MetricsMiddleware(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			path := r.Pattern
			if path == "" {
				path = r.URL.Path
			}
			collector.RecordRequest(r.Method, path, rw.statusCode, time.Since(startTime))
		})
	}
}
