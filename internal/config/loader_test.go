package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withRoot points the loader at a fresh directory and optionally writes
// conf/global.yaml.
func withRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv(EnvPrefix+"ROOT", root)
	if yaml != "" {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	}
	return root
}

func TestLoad_DefaultsWithoutYAML(t *testing.T) {
	root := withRoot(t, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "https://restcountries.com/v3.1/all", cfg.Upstream.URL)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 1, cfg.Upstream.Workers)
	assert.Equal(t, filepath.Join(root, "logs"), cfg.Log.Dir)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Same(t, cfg, Get())
}

func TestLoad_YAMLThenEnvPrecedence(t *testing.T) {
	withRoot(t, `
http:
  listen_addr: "127.0.0.1:9000"
database:
  driver: mysql
  dsn: "countries:%s@tcp(db:3306)/countries"
  password: from-yaml
upstream:
  timeout: 5s
  workers: 4
auth:
  api_tokens: ["aaaaaaaaaaaaaaaaaaaa"]
`)
	t.Setenv("COUNTRIES_UPSTREAM__WORKERS", "8")
	t.Setenv("COUNTRIES_DATABASE__PASSWORD", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.ListenAddr)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "countries:s3cret@tcp(db:3306)/countries", cfg.Database.DSN)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 8, cfg.Upstream.Workers)
	assert.Equal(t, []string{"aaaaaaaaaaaaaaaaaaaa"}, cfg.Auth.APITokens)
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"bad driver":    "database:\n  driver: oracle\n",
		"bad url":       "upstream:\n  url: not a url\n",
		"zero workers":  "upstream:\n  workers: 0\n",
		"short token":   "auth:\n  api_tokens: [\"short\"]\n",
		"bad log level": "log:\n  level: chatty\n",
		"bad listen":    "http:\n  listen_addr: nope\n",
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			withRoot(t, yaml)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MemoryDriverNeedsNoDSN(t *testing.T) {
	withRoot(t, "database:\n  driver: memory\n  dsn: \"\"\n")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
}

func TestLoad_MalformedYAML(t *testing.T) {
	withRoot(t, "http: [unclosed\n")
	_, err := Load()
	assert.Error(t, err)
}

func TestFillDSN(t *testing.T) {
	assert.Equal(t, "u:pw@tcp(h)/d", fillDSN("u:%s@tcp(h)/d", "pw"))
	assert.Equal(t, "file:x.db", fillDSN("file:x.db", "pw"))
	assert.Equal(t, "%s%s", fillDSN("%s%s", "pw"), "templates with two verbs are left alone")
}
