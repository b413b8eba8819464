package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVault struct {
	data   map[string]string
	calls  int
	closed bool
}

func (f *fakeVault) GetKV(_ context.Context, path, key string, ttl time.Duration) (string, error) {
	f.calls++
	v, ok := f.data[path+"#"+key]
	if !ok {
		return "", errors.New("no such secret")
	}
	return v, nil
}

func (f *fakeVault) Close() { f.closed = true }

func stubVault(t *testing.T, fv *fakeVault) *int {
	t.Helper()
	built := 0
	orig := newSecretGetter
	newSecretGetter = func(context.Context) (SecretGetter, error) {
		built++
		return fv, nil
	}
	t.Cleanup(func() { newSecretGetter = orig })
	return &built
}

func TestResolveSecrets(t *testing.T) {
	fv := &fakeVault{data: map[string]string{
		"secret/countries#db_password": "pw",
		"secret/countries#token_a":     "tok-aaaaaaaaaaaaaaaa",
	}}
	built := stubVault(t, fv)

	cfg := &Config{
		Database: Database{Password: "vault:secret/countries#db_password", DSN: "file:x.db"},
		Auth:     Auth{APITokens: []string{"vault:secret/countries#token_a", "literal-token-xxxxxxx"}},
	}
	require.NoError(t, resolveSecrets(context.Background(), cfg))

	assert.Equal(t, "pw", cfg.Database.Password)
	assert.Equal(t, "file:x.db", cfg.Database.DSN)
	assert.Equal(t, []string{"tok-aaaaaaaaaaaaaaaa", "literal-token-xxxxxxx"}, cfg.Auth.APITokens)
	assert.Equal(t, 1, *built, "one client per Load")
	assert.Equal(t, 2, fv.calls)
	assert.True(t, fv.closed)
}

func TestResolveSecrets_NoRefsNoClient(t *testing.T) {
	built := stubVault(t, &fakeVault{})
	cfg := &Config{Database: Database{Password: "plain"}}
	require.NoError(t, resolveSecrets(context.Background(), cfg))
	assert.Zero(t, *built)
}

func TestResolveSecrets_Errors(t *testing.T) {
	stubVault(t, &fakeVault{data: map[string]string{}})

	cfg := &Config{Database: Database{Password: "vault:secret/countries"}}
	assert.ErrorContains(t, resolveSecrets(context.Background(), cfg), "malformed vault reference")

	cfg = &Config{Database: Database{Password: "vault:secret/countries#missing"}}
	assert.ErrorContains(t, resolveSecrets(context.Background(), cfg), "no such secret")
}

func TestResolveSecrets_ClientFailure(t *testing.T) {
	orig := newSecretGetter
	newSecretGetter = func(context.Context) (SecretGetter, error) { return nil, errors.New("VAULT_ADDR unset") }
	t.Cleanup(func() { newSecretGetter = orig })

	cfg := &Config{Database: Database{DSN: "vault:secret/db#dsn"}}
	assert.ErrorContains(t, resolveSecrets(context.Background(), cfg), "vault client")
}
