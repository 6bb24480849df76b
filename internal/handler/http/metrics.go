package http

import (
	"net/http"
	"strconv"
	"time"

	"commentlens/internal/handler/http/responsewriter"
	"commentlens/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// knownPaths bounds the path label; anything else is reported as "other".
var knownPaths = map[string]struct{}{
	"/health":    {},
	"/live":      {},
	"/ready":     {},
	"/metrics":   {},
	"/sentiment": {},
	"/summarize": {},
	"/wordcloud": {},
}

func metricPath(p string) string {
	if _, ok := knownPaths[p]; ok {
		return p
	}
	if len(p) >= len("/swagger/") && p[:len("/swagger/")] == "/swagger/" {
		return "/swagger/"
	}
	return "other"
}

// MetricsMiddleware records request count, latency and sizes per route.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		path := metricPath(r.URL.Path)
		if r.ContentLength > 0 {
			metrics.HTTPRequestSize.WithLabelValues(r.Method, path).Observe(float64(r.ContentLength))
		}

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)

		status := strconv.Itoa(rw.StatusCode())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		metrics.HTTPResponseSize.WithLabelValues(r.Method, path).Observe(float64(rw.BytesWritten()))
	})
}

// MetricsHandler serves the Prometheus exposition format.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
