package logging

import (
	"net/http"
)

// loggingWriter records the status code and the size of a response for the
// access log.
type loggingWriter struct {
	writer http.ResponseWriter
	code   int
	bytes  int64
}

func (lw *loggingWriter) Header() http.Header { return lw.writer.Header() }

// Unwrap exposes the wrapped writer to http.ResponseController.
func (lw *loggingWriter) Unwrap() http.ResponseWriter { return lw.writer }

func (lw *loggingWriter) WriteHeader(code int) {
	lw.writer.WriteHeader(code)
	if lw.code == 0 {
		lw.code = code
	}
}

func (lw *loggingWriter) Write(data []byte) (int, error) {
	if lw.code == 0 {
		lw.code = http.StatusOK
	}

	n, err := lw.writer.Write(data)
	lw.bytes += int64(n)
	return n, err
}

// Flush is a no-op when the wrapped writer doesn't support flushing.
func (lw *loggingWriter) Flush() {
	_ = http.NewResponseController(lw.writer).Flush()
}
