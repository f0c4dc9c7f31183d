package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/go-chi/render"

	"artikelku/pkg/logger"
)

// Kind is the closed set of failure classes the API surfaces. The mapping in
// Response covers every kind; a new kind without a mapping falls through to
// the internal-server-error shape rather than leaking anything.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
)

// AppError carries a classified failure through the request pipeline. The
// wrapped error and captured stack never reach the client; they are read only
// by the monitoring capture stage.
type AppError struct {
	Kind Kind
	Err  error

	pcs []uintptr
}

func (e *AppError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return "not found"
	case KindBadRequest:
		return fmt.Sprintf("bad request: %v", e.Err)
	default:
		return fmt.Sprintf("internal server error: %v", e.Err)
	}
}

func (e *AppError) Unwrap() error { return e.Err }

// NotFound classifies an absent resource or absent required parent.
func NotFound() *AppError {
	return &AppError{Kind: KindNotFound, Err: errors.New("not found")}
}

// BadRequest classifies a malformed or incomplete request body.
func BadRequest(err error) *AppError {
	return &AppError{Kind: KindBadRequest, Err: err}
}

// Internal wraps any data-access or invariant failure and records the call
// stack at the point of classification.
func Internal(err error) *AppError {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)

	return &AppError{Kind: KindInternal, Err: err, pcs: pcs[:n]}
}

// Frame is one resolved stack entry of an internal failure.
type Frame struct {
	Function string `json:"function"`
	File     string `json:"filename"`
	Line     int    `json:"lineno"`
}

// Frames resolves the stack captured by Internal. Empty for other kinds.
func (e *AppError) Frames() []Frame {
	if len(e.pcs) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(e.pcs)
	out := make([]Frame, 0, len(e.pcs))
	for {
		f, more := frames.Next()
		out = append(out, Frame{Function: f.Function, File: f.File, Line: f.Line})
		if !more {
			break
		}
	}

	return out
}

// ErrResponse is the fixed wire shape for every error kind.
type ErrResponse struct {
	HTTPStatusCode int `json:"-"`

	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

// Response maps the kind to its status and body. No entity detail leaks: the
// body is identical no matter which lookup or precondition failed.
func (e *AppError) Response() *ErrResponse {
	switch e.Kind {
	case KindNotFound:
		return &ErrResponse{
			HTTPStatusCode: http.StatusNotFound,
			Code:           "NOT_FOUND",
			Message:        "Not Found",
		}
	case KindBadRequest:
		return &ErrResponse{
			HTTPStatusCode: http.StatusBadRequest,
			Code:           "BAD_REQUEST",
			Message:        "Bad Request",
		}
	default:
		return &ErrResponse{
			HTTPStatusCode: http.StatusInternalServerError,
			Code:           "INTERNAL_SERVER_ERROR",
			Message:        "Internal Server Error",
		}
	}
}

type ctxKey int

const holderKey ctxKey = 0

type holder struct {
	err *AppError
}

// WithHolder installs the per-request slot the capture middleware reads after
// the response is written.
func WithHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, holderKey, &holder{})
}

// Recorded returns the error rendered during this request, if any.
func Recorded(ctx context.Context) *AppError {
	if h, ok := ctx.Value(holderKey).(*holder); ok {
		return h.err
	}

	return nil
}

// Render writes the mapped response and records e for the capture stage.
// Handlers call this exactly once per failed request.
func Render(w http.ResponseWriter, r *http.Request, e *AppError) {
	if h, ok := r.Context().Value(holderKey).(*holder); ok {
		h.err = e
	}

	if err := render.Render(w, r, e.Response()); err != nil {
		logger.Sugar.Errorf("Failed to render error response: %v", err)
	}
}
