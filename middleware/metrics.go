package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/metric"
)

// Metrics counts completed requests on the bound counter created at startup.
func Metrics(completed metric.BoundInt64Counter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			completed.Add(r.Context(), 1)
		})
	}
}
