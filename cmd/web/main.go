// cmd/web/main.go
//
// Countries service – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (defaults → conf/.env → conf/global.yaml → env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Build the service graph: Record Store (MySQL, SQLite, or memory),
//     Query Engine, and Synchronizer.  SQL stores migrate on boot.
//
//  4. Open the optional GeoLite2 database for /api/countries/mine.
//
//  5. Build the router (routes.go) and serve with graceful shutdown on
//     SIGINT or SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanizio/countries/internal/app"
	"github.com/yanizio/countries/internal/config"
	"github.com/yanizio/countries/internal/logger"
	"github.com/yanizio/countries/internal/requestinfo"
	"github.com/yanizio/countries/internal/server"

	_ "github.com/yanizio/countries/components/countries" // /api/countries
	_ "github.com/yanizio/countries/components/syncapi"   // /api/sync
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Log.Dir, cfg.Log.Level, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 1.  Store, engine, synchronizer ─────────────────────────────────
	//
	a, err := app.Build(ctx, cfg, logOut)
	if err != nil {
		logOut.Fatalw("bootstrap failed", "err", err)
	}
	defer a.Close()

	//
	// ── 2.  GeoIP (optional) ────────────────────────────────────────────
	//
	geo, err := requestinfo.Open(cfg.GeoIP.DBPath)
	if err != nil {
		logOut.Fatalw("open GeoLite2 database", "path", cfg.GeoIP.DBPath, "err", err)
	}
	defer geo.Close()
	if geo == nil {
		logOut.Infow("geoip disabled; /api/countries/mine will answer 404")
	}

	//
	// ── 3.  Router and server ───────────────────────────────────────────
	//
	handler, err := newRouter(a, geo)
	if err != nil {
		logOut.Fatalw("build router", "err", err)
	}
	if len(cfg.Auth.APITokens) == 0 {
		logOut.Warnw("auth.api_tokens is empty; /api is open to every caller")
	}

	srv := server.New(cfg.HTTP.ListenAddr, handler, writeTimeout(cfg.Upstream))
	if err := server.Run(ctx, srv, logOut); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Infow("bye")
}
