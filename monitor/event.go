package monitor

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"artikelku/internal/apperror"
)

// Frame is one entry of a parsed stacktrace.
type Frame struct {
	Function string `json:"function"`
	File     string `json:"filename"`
	Line     int    `json:"lineno"`
}

// RequestInfo is the request metadata attached to every event.
type RequestInfo struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
}

// Event is the monitoring record built for every server-fault response. It
// carries the detail the client response deliberately omits.
type Event struct {
	ID         string      `json:"event_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Level      string      `json:"level"`
	Message    string      `json:"message"`
	Request    RequestInfo `json:"request"`
	Stacktrace []Frame     `json:"stacktrace,omitempty"`
}

// NewEvent builds an event with a fresh unique id from the failed request and
// the classified error behind it.
func NewEvent(r *http.Request, appErr *apperror.AppError) Event {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		headers[k] = strings.Join(v, ", ")
	}

	var frames []Frame
	for _, f := range appErr.Frames() {
		frames = append(frames, Frame{Function: f.Function, File: f.File, Line: f.Line})
	}

	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Level:     "error",
		Message:   appErr.Error(),
		Request: RequestInfo{
			URL:     scheme + "://" + r.Host + r.URL.Path,
			Method:  r.Method,
			Headers: headers,
		},
		Stacktrace: frames,
	}
}
