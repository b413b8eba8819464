// internal/config/secrets.go
//
// `vault:` reference resolution.
//
// Context
// -------
// Operators may write a secret reference instead of a literal in any of the
// secret-bearing fields:
//
//	database:
//	  password: "vault:secret/countries#db_password"
//
// The part before `#` is the KV-v2 path (mount first), the part after is the
// key inside the secret.  References are resolved once per Load.  The Vault
// client is only constructed when at least one reference is present, so
// deployments without Vault never need VAULT_ADDR.
//
// Notes
// -----
//   • Fields scanned: database.password, database.dsn, auth.api_tokens.
//   • Oxford commas, two spaces after periods.

package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/countries/internal/vault"
)

const vaultPrefix = "vault:"

// secretTTL bounds how long the Vault client caches a resolved value.
const secretTTL = 5 * time.Minute

// SecretGetter is the slice of *vault.Client the loader needs.
type SecretGetter interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// newSecretGetter is swapped in tests.
var newSecretGetter = func(ctx context.Context) (SecretGetter, error) {
	return vault.New(ctx, zap.S().Infof)
}

func resolveSecrets(ctx context.Context, cfg *Config) error {
	fields := []*string{&cfg.Database.Password, &cfg.Database.DSN}
	for i := range cfg.Auth.APITokens {
		fields = append(fields, &cfg.Auth.APITokens[i])
	}

	var getter SecretGetter
	defer func() {
		// Values are resolved once per Load; no need to keep renewing.
		if c, ok := getter.(interface{ Close() }); ok {
			c.Close()
		}
	}()

	for _, f := range fields {
		if !strings.HasPrefix(*f, vaultPrefix) {
			continue
		}
		if getter == nil {
			g, err := newSecretGetter(ctx)
			if err != nil {
				return fmt.Errorf("vault client: %w", err)
			}
			getter = g
		}
		path, key, ok := strings.Cut(strings.TrimPrefix(*f, vaultPrefix), "#")
		if !ok || path == "" || key == "" {
			return fmt.Errorf("malformed vault reference %q (want vault:<path>#<key>)", *f)
		}
		val, err := getter.GetKV(ctx, path, key, secretTTL)
		if err != nil {
			return err
		}
		*f = val
	}
	return nil
}
