// cmd/web/routes.go
//
// Root router.
//
// Middleware order, outermost first:
//
//	RequestID → RealIP → requestinfo.Enrich → AccessLog → Recoverer
//	→ Security → ForceHTTPS
//
// Unauthenticated: /healthz, /metrics.  Everything under /api passes
// auth.Require and is served by the registered components.

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/countries/internal/app"
	"github.com/yanizio/countries/internal/auth"
	"github.com/yanizio/countries/internal/component"
	"github.com/yanizio/countries/internal/config"
	"github.com/yanizio/countries/internal/middleware"
	"github.com/yanizio/countries/internal/requestinfo"
)

func newRouter(a *app.App, geo *requestinfo.Locator) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		requestinfo.Enrich(geo),
		middleware.AccessLog(a.Log.Desugar()),
		chimw.Recoverer,
		middleware.Security,
		middleware.ForceHTTPS(a.Config.HTTP.ForceHTTPS),
	)

	r.Get("/healthz", healthz(a))
	r.Handle("/metrics", promhttp.Handler())

	var mountErr error
	r.Route("/api", func(api chi.Router) {
		api.Use(auth.Require(a.Config.Auth.APITokens))
		mountErr = component.Mount(api, component.Deps{
			Store:  a.Store,
			Engine: a.Engine,
			Sync:   a.Sync,
			Log:    a.Log,
		})
	})
	if mountErr != nil {
		return nil, mountErr
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		component.JSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	return r, nil
}

// healthz reports store reachability and the current row count.
func healthz(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := a.Store.Count(r.Context())
		if err != nil {
			component.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		component.JSON(w, http.StatusOK, map[string]any{"status": "ok", "records": n})
	}
}

// writeTimeout leaves room for every upstream attempt of a synchronous
// POST /api/sync plus the store writes that follow.
func writeTimeout(u config.Upstream) time.Duration {
	return u.Timeout*time.Duration(u.Retries+1) + 30*time.Second
}
