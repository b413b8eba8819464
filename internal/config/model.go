// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                             – dotenv values,
//   • `conf/global.yaml`                          – primary static file,
//   • `COUNTRIES_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* validation, so the model never hands
// Vault URIs to callers, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Durations are Go duration strings ("30s", "2m").
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database selects the Record Store backend.
//
// `DSN` may contain one `%s` verb; the loader substitutes `Password` into
// it, so the secret can live in Vault while the template stays in YAML.
type Database struct {
	Driver       string        `koanf:"driver"         validate:"required,oneof=mysql sqlite3 memory"`
	DSN          string        `koanf:"dsn"            validate:"required_unless=Driver memory"`
	Password     string        `koanf:"password"`
	MaxOpenConns int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int           `koanf:"max_idle_conns" validate:"gte=0"`
	Retries      int           `koanf:"retries"        validate:"gte=0"`
	RetryBackoff time.Duration `koanf:"retry_backoff"`
}

//
// Upstream section
//

// Upstream configures the synchronizer's data source.
type Upstream struct {
	URL     string        `koanf:"url"     validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	Retries int           `koanf:"retries" validate:"gte=0"`
	Workers int           `koanf:"workers" validate:"gte=1,lte=64"`
}

//
// Auth section
//

// Auth lists the bearer tokens accepted on /api routes.  An empty list
// leaves the API open, which is only sensible on a loopback listener.
type Auth struct {
	APITokens []string `koanf:"api_tokens" validate:"dive,min=16"`
}

//
// GeoIP section
//

// GeoIP points at an optional MaxMind GeoLite2 database.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Log section
//

// Log configures the zap logger.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // COUNTRIES_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Upstream Upstream `koanf:"upstream"`
	Auth     Auth     `koanf:"auth"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"`
}

// defaults seeds the koanf tree before any file is read.
var defaults = map[string]any{
	"http.listen_addr":        ":8080",
	"http.force_https":        false,
	"database.driver":         "sqlite3",
	"database.dsn":            "file:countries.db?_foreign_keys=on",
	"database.max_open_conns": 15,
	"database.max_idle_conns": 5,
	"database.retries":        2,
	"database.retry_backoff":  "500ms",
	"upstream.url":            "https://restcountries.com/v3.1/all",
	"upstream.timeout":        "30s",
	"upstream.retries":        2,
	"upstream.workers":        1,
	"log.dir":                 "logs",
	"log.level":               "info",
}
