package logging

import (
	"context"
	"net/http"
	"time"
)

type endpointKey struct{}

type accessHandler struct {
	next http.Handler
}

// NewHandler wraps a handler, and logs every request to the access log.
func NewHandler(next http.Handler) http.Handler {
	return &accessHandler{next: next}
}

// SetEndpoint records the endpoint serving a request wrapped by the access
// log handler. Outside of the handler, it has no effect.
func SetEndpoint(ctx context.Context, name string) {
	if e, ok := ctx.Value(endpointKey{}).(*string); ok {
		*e = name
	}
}

func (h *accessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	var endpoint string
	r = r.WithContext(context.WithValue(r.Context(), endpointKey{}, &endpoint))
	lw := &loggingWriter{writer: w}
	h.next.ServeHTTP(lw, r)

	if lw.code == 0 {
		lw.code = http.StatusOK
	}

	LogAccess(&AccessEntry{
		Request:      r,
		StatusCode:   lw.code,
		ResponseSize: lw.bytes,
		Duration:     time.Since(now),
		RequestTime:  now,
		Endpoint:     endpoint,
	})
}
