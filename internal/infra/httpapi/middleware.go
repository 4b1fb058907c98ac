package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"toolsapp/internal/domain"
	"toolsapp/internal/infra/telemetry"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// withRequest attaches request ids, echoes them back and records metrics.
func (s *Server) withRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, meta := telemetry.RequestMetaFromHTTP(r)
		w.Header().Set(telemetry.RequestIDHeader, meta.RequestID)

		req := r.WithContext(ctx)
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, req)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		route := req.Pattern
		if route == "" {
			route = "unmatched"
		}
		duration := time.Since(start)
		s.metrics.ObserveHTTPRequest(domain.HTTPMetric{
			Route:    route,
			Method:   r.Method,
			Status:   status,
			Duration: duration,
		})
		telemetry.LoggerWithRequest(ctx, s.logger).Debug("request served",
			telemetry.EventField(telemetry.EventHTTPRequest),
			zap.String("route", route),
			zap.String("method", r.Method),
			zap.Int("status", status),
			telemetry.DurationField(duration),
		)
	})
}
