package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type StatusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *StatusRecorder) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *StatusRecorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// LoggerMiddleware 記錄request 請求
// request 範圍的 logger 放進 context, 下游可用 zerolog.Ctx 取得
func LoggerMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestId := GetRequestID(r.Context())
			reqLogger := logger.With().Str("request_id", requestId).Logger()

			recorder := &StatusRecorder{ResponseWriter: w}
			next.ServeHTTP(recorder, r.WithContext(reqLogger.WithContext(r.Context())))

			status := recorder.Status()
			var event *zerolog.Event
			switch {
			case status >= http.StatusInternalServerError:
				event = reqLogger.Error()
			case status >= http.StatusBadRequest:
				event = reqLogger.Warn()
			default:
				event = reqLogger.Info()
			}
			event.
				Str("method", r.Method).
				Str("url", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Int("status", status).
				Int("bytes", recorder.bytes).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
