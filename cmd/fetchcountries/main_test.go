package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = `[
  {"name":{"common":"Peru","official":"Republic of Peru"},"cca2":"PE","cca3":"PER","region":"Americas"},
  {"name":{"common":"Nepal","official":"Federal Democratic Republic of Nepal"},"cca2":"NP","cca3":"NPL","region":"Asia"},
  {"name":{"common":"Malta","official":"Republic of Malta"},"cca2":"MT","cca3":"MLT","region":"Europe"}
]`

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("COUNTRIES_ROOT", t.TempDir())
	t.Setenv("COUNTRIES_DATABASE__DRIVER", "memory")
}

func TestFetchCountries_PrintsSummary(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, dataset)
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--url", srv.URL, "--workers", "2"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Successfully processed countries data: 3 created, 0 updated, 3 total\n", out.String())
}

func TestFetchCountries_UpstreamFailure(t *testing.T) {
	isolate(t)
	t.Setenv("COUNTRIES_UPSTREAM__RETRIES", "0")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--url", srv.URL})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Empty(t, out.String())
}

func TestFetchCountries_RejectsArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}
