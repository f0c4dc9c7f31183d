package middleware

import (
	"net/http"

	"artikelku/internal/apperror"
	"artikelku/monitor"
)

// CaptureErrors installs the per-request error slot and, once the response
// has been written, turns a recorded server fault into a monitoring event.
// The event goes to the hub's buffered channel, so the client response is
// never delayed by collector delivery.
func CaptureErrors(hub *monitor.Hub) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(apperror.WithHolder(r.Context()))

			next.ServeHTTP(w, r)

			if e := apperror.Recorded(r.Context()); e != nil && e.Kind == apperror.KindInternal {
				hub.Capture <- monitor.NewEvent(r, e)
			}
		})
	}
}
