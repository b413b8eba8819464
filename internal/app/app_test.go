package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/countries/internal/config"
)

const payload = `[
  {"name":{"common":"Iceland","official":"Iceland"},"cca2":"IS","cca3":"ISL","region":"Europe",
   "languages":{"isl":"Icelandic"},"capital":["Reykjavik"]},
  {"name":{"common":"Chile","official":"Republic of Chile"},"cca2":"CL","cca3":"CHL","region":"Americas",
   "borders":["ARG","BOL","PER"]}
]`

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func cfgFor(driver, dsn, url string) *config.Config {
	return &config.Config{
		Database: config.Database{Driver: driver, DSN: dsn},
		Upstream: config.Upstream{URL: url, Timeout: 5 * time.Second, Workers: 1},
	}
}

func TestBuild_MemoryEndToEnd(t *testing.T) {
	ctx := context.Background()
	a, err := Build(ctx, cfgFor(DriverMemory, "", upstream(t).URL), zap.NewNop().Sugar())
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.DB)

	res, err := a.Sync.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)

	got, err := a.Engine.ByLanguage(ctx, "icelandic")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ISL", got[0].CCA3)
}

func TestBuild_SQLiteMigratesAndSyncs(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "countries.db")
	cfg := cfgFor("sqlite3", dsn, upstream(t).URL)

	a, err := Build(ctx, cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NotNil(t, a.DB)

	res, err := a.Sync.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.NoError(t, a.Close())

	// Reopen: migrations are idempotent and the second sync only updates.
	a, err = Build(ctx, cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer a.Close()

	res, err = a.Sync.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Updated)

	rec, err := a.Store.GetByCCA3(ctx, "chl")
	require.NoError(t, err)
	assert.Equal(t, "Chile", rec.Name)
	assert.Equal(t, []string{"ARG", "BOL", "PER"}, []string(rec.Borders))
	assert.Equal(t, "N/A", rec.Capital())
}

func TestBuild_UnknownDriver(t *testing.T) {
	_, err := Build(context.Background(), cfgFor("oracle", "x", "http://127.0.0.1"), zap.NewNop().Sugar())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDBOptions(t *testing.T) {
	opt := dbOptions(config.Database{MaxOpenConns: 4, Retries: 0, RetryBackoff: time.Second})
	assert.Equal(t, 4, opt.MaxOpenConns)
	assert.Equal(t, 0, opt.Retries)
	assert.Equal(t, time.Second, opt.RetryBackoff)
	assert.Positive(t, opt.MaxIdleConns)
}
