package network

import (
	stdlog "log"
	"net/http"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"
)

type errorLogWriter struct {
	l logging.Logger
}

func (w errorLogWriter) Write(b []byte) (int, error) {
	w.l.Error("http server error", "error", strings.TrimSpace(string(b)))
	return len(b), nil
}

// NewHTTP2ErrorLogger is the `http.Server.ErrorLog` writing to `l`.
func NewHTTP2ErrorLogger(l logging.Logger) *stdlog.Logger {
	return stdlog.New(errorLogWriter{l: l}, "", 0)
}

// responseRecorder remembers the status and the body size while passing
// everything through, flushes included, so event streams keep working.
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (w *responseRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *responseRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// requestLogHandler logs every request at debug level, once when it arrives
// and once when the response is done. The id is the one set by
// `RequestIDMiddleware`.
type requestLogHandler struct {
	log     logging.Logger
	handler http.Handler
}

func (h requestLogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()

	h.log.Debug(
		"request",
		"id", r.Header.Get(RequestIDHeader),
		"method", r.Method,
		"uri", r.URL.RequestURI(),
		"proto", r.Proto,
		"remote", r.RemoteAddr,
		"user-agent", r.UserAgent(),
		"content-length", r.ContentLength,
	)

	rec := newResponseRecorder(w)
	h.handler.ServeHTTP(rec, r)

	h.log.Debug(
		"response",
		"id", r.Header.Get(RequestIDHeader),
		"status", rec.status,
		"size", rec.size,
		"elapsed", time.Since(begin),
	)
}
