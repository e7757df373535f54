package http

import (
	"net/http"
	"strconv"
	"time"

	"polysum/internal/handler/http/responsewriter"
	"polysum/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// knownPaths bounds the path label; anything else is recorded as "other".
var knownPaths = map[string]struct{}{
	"/summarize":       {},
	"/extract_article": {},
	"/health":          {},
	"/ready":           {},
	"/live":            {},
	"/metrics":         {},
}

func pathLabel(path string) string {
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return "other"
}

// MetricsMiddleware records request count, duration, sizes and in-flight
// requests. Unknown paths share one label to keep cardinality bounded.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)

		metrics.RecordHTTPRequest(
			r.Method,
			pathLabel(r.URL.Path),
			strconv.Itoa(rw.StatusCode()),
			time.Since(start),
			int(r.ContentLength),
			rw.BytesWritten(),
		)
	})
}

// MetricsHandler returns the Prometheus scrape handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
