package utils

import (
	"bytes"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// maxLoggedBody caps how much of an error response is kept for the log
const maxLoggedBody = 1024

// errorRecorder keeps the start of the body of responses with an error status
type errorRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *errorRecorder) record(b []byte) {
	if w.Status() < 400 {
		return
	}
	if room := maxLoggedBody - w.body.Len(); room > 0 {
		if len(b) > room {
			b = b[:room]
		}
		w.body.Write(b)
	}
}

func (w *errorRecorder) Write(b []byte) (int, error) {
	w.record(b)
	return w.ResponseWriter.Write(b)
}

func (w *errorRecorder) WriteString(s string) (int, error) {
	w.record([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

// ErrorLogMiddleware logs the status and body of every 4xx/5xx response at debug level.
// Bodies are recorded as written, so it must run before any compressing middleware.
func ErrorLogMiddleware(c *gin.Context) {
	recorder := &errorRecorder{ResponseWriter: c.Writer}
	c.Writer = recorder
	c.Next()
	if status := recorder.Status(); status >= 400 {
		slog.Debug("error response",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"body", recorder.body.String(),
		)
	}
}
