// internal/middleware/accesslog.go
//
// Structured access log and HTTP metrics.
//
// Context
// -------
// One INFO line per request, written through the zap logger handed in by
// cmd/web.  Fields: request id (chi), method, route pattern, status,
// bytes, duration, client IP, country, and bot flag (requestinfo).  The
// same pass feeds the
// countries_http_requests_total counter and latency histogram.
//
// Notes
// -----
// • The route label uses chi's matched pattern, not the raw path, so
//   /api/countries/{id} stays one series no matter how many ids exist.
// • Must run inside requestinfo.Enrich so the geo fields are populated.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/countries/internal/metrics"
	"github.com/yanizio/countries/internal/requestinfo"
)

// AccessLog returns middleware that logs every request on log.
func AccessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := routePattern(r)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())

			fields := []zap.Field{
				zap.String("req_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", elapsed),
			}
			if info := requestinfo.FromContext(r.Context()); info != nil {
				fields = append(fields,
					zap.Stringer("ip", info.Geo.IP),
					zap.String("country", info.Geo.CountryISO),
					zap.Bool("bot", info.UA.IsBot),
				)
			}
			log.Info("http request", fields...)
		})
	}
}

// routePattern returns chi's matched pattern, or "unmatched" for 404s.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
