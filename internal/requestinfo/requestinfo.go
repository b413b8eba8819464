//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, IP + geolocation, URL, and timestamp).
//  These structs are inert.  They contain no pointers to database
//  handles or large buffers, so they are safe to log or JSON-encode.
//
//  Dependencies
//  • internal/ua                       (UA parsing, wraps uasurfer)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup)
//  • internal/cache                    (per-IP lookup cache)
//

package requestinfo

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/yanizio/countries/internal/cache"
	"github.com/yanizio/countries/internal/ua"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Geo holds IP-based geolocation hints.
// These are best-effort and may be empty if the DB has no match.
type Geo struct {
	IP         net.IP `json:"ip"`
	CountryISO string `json:"country_iso,omitempty"` // "US", "CA", "FR", ...
	City       string `json:"city,omitempty"`
}

// RequestInfo is attached to the request context by Enrich.
type RequestInfo struct {
	UA        ua.Info
	Geo       Geo
	URL       *url.URL // Pointer copy, safe to dereference read-only
	Timestamp time.Time
}

//
//  -----------------------------
//  Locator
//  -----------------------------
//

// geoCacheSize bounds the per-IP lookup cache.
const geoCacheSize = 4096

// Locator resolves client addresses to countries.  A nil *Locator is valid
// and resolves nothing, so deployments without a GeoLite2 file still run.
type Locator struct {
	db    *geoip2.Reader
	cache *cache.LRU[string, Geo]
}

// Open loads a GeoLite2 City or Country database.  An empty path returns
// (nil, nil).
func Open(dbPath string) (*Locator, error) {
	if dbPath == "" {
		return nil, nil
	}
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Locator{db: db, cache: cache.New[string, Geo](geoCacheSize)}, nil
}

// Close releases the mmap'd database.
func (l *Locator) Close() error {
	if l == nil {
		return nil
	}
	return l.db.Close()
}

// Lookup returns best-effort Geo data for ip.
func (l *Locator) Lookup(ip net.IP) Geo {
	if l == nil || ip == nil {
		return Geo{IP: ip}
	}
	key := ip.String()
	if g, ok := l.cache.Get(key); ok {
		return g
	}

	g := Geo{IP: ip}
	if rec, err := l.db.City(ip); err == nil {
		g.CountryISO = rec.Country.IsoCode
		g.City = rec.City.Names["en"]
	} else if rec, err := l.db.Country(ip); err == nil {
		// Country-only databases reject City lookups.
		g.CountryISO = rec.Country.IsoCode
	}
	l.cache.Add(key, g)
	return g
}

//
//  -----------------------------
//  Context helpers
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// NewContext returns ctx carrying info.  Enrich calls it for every request;
// tests call it directly.
func NewContext(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext returns the pointer previously stored by Enrich.
// It returns nil if the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}
