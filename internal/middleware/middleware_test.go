package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanizio/countries/internal/requestinfo"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestForceHTTPS(t *testing.T) {
	cases := []struct {
		name     string
		enabled  bool
		url      string
		mutate   func(*http.Request)
		wantCode int
		wantLoc  string
	}{
		{"disabled", false, "http://api.example.com/x", nil, http.StatusOK, ""},
		{"redirects", true, "http://api.example.com/api/countries?page=2", nil,
			http.StatusPermanentRedirect, "https://api.example.com/api/countries?page=2"},
		{"localhost", true, "http://localhost:8080/x", nil, http.StatusOK, ""},
		{"ipv6 loopback", true, "http://[::1]:8080/x", nil, http.StatusOK, ""},
		{"healthz", true, "http://api.example.com/healthz", nil, http.StatusOK, ""},
		{"proxy tls", true, "http://api.example.com/x", func(r *http.Request) {
			r.Header.Set("X-Forwarded-Proto", "https")
		}, http.StatusOK, ""},
		{"direct tls", true, "http://api.example.com/x", func(r *http.Request) {
			r.TLS = &tls.ConnectionState{}
		}, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.mutate != nil {
				tc.mutate(r)
			}
			rec := httptest.NewRecorder()
			ForceHTTPS(tc.enabled)(okHandler).ServeHTTP(rec, r)
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantLoc, rec.Header().Get("Location"))
		})
	}
}

func TestSecurity_SetsHeadersWithoutOverriding(t *testing.T) {
	h := Security(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=60")
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "max-age=60", rec.Header().Get("Cache-Control"))
}

func TestAccessLog_RecordsRoutePattern(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	r := chi.NewRouter()
	r.Use(requestinfo.Enrich(nil), AccessLog(zap.New(core)))
	r.Get("/api/countries/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/countries/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/api/countries/{id}", fields["route"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(2), fields["bytes"])
	assert.Equal(t, "/api/countries/42", fields["path"])
}
