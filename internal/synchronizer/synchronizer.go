// internal/synchronizer/synchronizer.go
//
// Country dataset synchronizer.
//
/*
Context
--------
`Sync` pulls the full upstream dataset and upserts every entry into the
Record Store, keyed by cca3.  It returns how many records were created and
updated.  Records that vanished upstream are left alone; the store never
loses rows through a sync.

Workflow
--------
  1. Fetch.  One GET; failures surface as *FetchError.
  2. Extract.  Every entry is decoded, normalised, and validated before the
     first write, and no two entries may claim the same cca2 under
     different cca3 codes.  A dataset failing either check aborts with
     *ProcessingError and leaves the store untouched.  Conflicts with rows
     already stored only surface in step 3, after earlier writes landed.
  3. Write.  One Upsert per entry.  With Workers > 1 entries are written
     concurrently; each Upsert is atomic on its own, and the run as a whole
     is not.  Datasets that repeat a cca3 are always written sequentially so
     the created/updated counts stay exact.

Any error aborts the run and no counts are returned.  Concurrent callers
share one in-flight run through singleflight.  The run is detached from the
caller that started it and bounded by RunTimeout instead, so a caller that
gives up returns its own ctx.Err() without cancelling the others.

Instrumentation
---------------
  • INFO  span: "sync complete" with counts and duration.
  • ERROR span: "sync failed" with the classified error.
  • Prometheus: runs by result, records by outcome, duration, row count.
*/
package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/countries/internal/country"
	"github.com/yanizio/countries/internal/metrics"
)

// DefaultURL is the REST Countries endpoint for the full dataset.
const DefaultURL = "https://restcountries.com/v3.1/all"

// Writer is the subset of country.Store the synchronizer needs.
type Writer interface {
	Upsert(ctx context.Context, rec *country.Record) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Options configures a Synchronizer.  Zero values take the defaults noted.
type Options struct {
	URL          string        // DefaultURL
	Timeout      time.Duration // 30s per attempt
	Retries      int           // extra attempts after the first
	RetryWaitMin time.Duration // 1s
	RetryWaitMax time.Duration // 10s
	Workers      int           // 1 (sequential)
	RunTimeout   time.Duration // Timeout*(Retries+1) + 2m
}

// Result reports the outcome of one successful run.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// Synchronizer fetches the upstream dataset and upserts it.  Safe for
// concurrent use.
type Synchronizer struct {
	store      Writer
	client     *retryablehttp.Client
	url        string
	workers    int
	runTimeout time.Duration
	log        *zap.SugaredLogger
	sfg        singleflight.Group
}

// New builds a Synchronizer writing to store.  A nil log uses zap.S().
func New(store Writer, opt Options, log *zap.SugaredLogger) *Synchronizer {
	if log == nil {
		log = zap.S()
	}
	if opt.URL == "" {
		opt.URL = DefaultURL
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 30 * time.Second
	}
	if opt.Retries < 0 {
		opt.Retries = 0
	}
	if opt.RetryWaitMin <= 0 {
		opt.RetryWaitMin = time.Second
	}
	if opt.RetryWaitMax < opt.RetryWaitMin {
		opt.RetryWaitMax = 10 * opt.RetryWaitMin
	}
	if opt.Workers < 1 {
		opt.Workers = 1
	}
	if opt.RunTimeout <= 0 {
		opt.RunTimeout = opt.Timeout*time.Duration(opt.Retries+1) + 2*time.Minute
	}
	return &Synchronizer{
		store:      store,
		client:     newClient(opt.Timeout, opt.Retries, opt.RetryWaitMin, opt.RetryWaitMax, log),
		url:        opt.URL,
		workers:    opt.Workers,
		runTimeout: opt.RunTimeout,
		log:        log,
	}
}

// Sync runs one synchronisation.  Callers arriving while a run is in
// flight wait for it and receive the same result.  If ctx ends first, Sync
// returns ctx.Err() and the run carries on for the remaining callers.
func (s *Synchronizer) Sync(ctx context.Context) (Result, error) {
	ch := s.sfg.DoChan("sync", func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.runTimeout)
		defer cancel()
		return s.run(runCtx)
	})

	select {
	case <-ctx.Done():
		s.log.Debugw("sync caller gave up; run continues", "err", ctx.Err())
		return Result{}, ctx.Err()
	case r := <-ch:
		if r.Shared {
			s.log.Debugw("sync joined in-flight run")
		}
		if r.Err != nil {
			return Result{}, r.Err
		}
		return r.Val.(Result), nil
	}
}

/*──────────────────────────── run ──────────────────────────────────────────*/

func (s *Synchronizer) run(ctx context.Context) (Result, error) {
	start := time.Now()
	s.log.Infow("fetching countries data", "url", s.url)

	res, err := s.runOnce(ctx)
	elapsed := time.Since(start)
	metrics.SyncDuration.Observe(elapsed.Seconds())

	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues(resultLabel(err)).Inc()
		s.log.Errorw("sync failed", "err", err, "elapsed", elapsed)
		return Result{}, err
	}

	metrics.SyncRunsTotal.WithLabelValues("ok").Inc()
	metrics.SyncRecordsTotal.WithLabelValues("created").Add(float64(res.Created))
	metrics.SyncRecordsTotal.WithLabelValues("updated").Add(float64(res.Updated))
	if n, err := s.store.Count(ctx); err == nil {
		metrics.Records.Set(float64(n))
	}

	s.log.Infow("sync complete",
		"created", res.Created,
		"updated", res.Updated,
		"total", res.Total,
		"elapsed", elapsed,
	)
	return res, nil
}

func (s *Synchronizer) runOnce(ctx context.Context) (Result, error) {
	entries, err := s.fetch(ctx)
	if err != nil {
		return Result{}, err
	}

	recs := make([]country.Record, len(entries))
	seen := make(map[string]struct{}, len(entries))
	alpha2 := make(map[string]string, len(entries)) // cca2 → cca3
	dupes := false
	for i, raw := range entries {
		rec, err := extract(raw)
		if err != nil {
			return Result{}, &ProcessingError{Index: i, Err: err}
		}
		if err := rec.Validate(); err != nil {
			return Result{}, &ProcessingError{Index: i, Err: err}
		}
		if rec.CCA2 != "" {
			if owner, ok := alpha2[rec.CCA2]; ok && owner != rec.CCA3 {
				return Result{}, &ProcessingError{Index: i, Err: &country.ValidationError{
					Field:  "cca2",
					Reason: "duplicate of " + owner + " in dataset",
				}}
			}
			alpha2[rec.CCA2] = rec.CCA3
		}
		if _, ok := seen[rec.CCA3]; ok {
			dupes = true
		}
		seen[rec.CCA3] = struct{}{}
		recs[i] = rec
	}

	var created, updated atomic.Int64
	write := func(ctx context.Context, i int) error {
		ok, err := s.store.Upsert(ctx, &recs[i])
		if err != nil {
			if errors.Is(err, country.ErrValidation) {
				return &ProcessingError{Index: i, Err: err}
			}
			return fmt.Errorf("upsert %s: %w", recs[i].CCA3, err)
		}
		if ok {
			created.Add(1)
		} else {
			updated.Add(1)
		}
		return nil
	}

	if s.workers == 1 || dupes {
		for i := range recs {
			if err := write(ctx, i); err != nil {
				return Result{}, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for i := range recs {
			i := i
			g.Go(func() error { return write(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	}

	c, u := int(created.Load()), int(updated.Load())
	return Result{Created: c, Updated: u, Total: c + u}, nil
}

func resultLabel(err error) string {
	var fe *FetchError
	var pe *ProcessingError
	switch {
	case errors.As(err, &fe):
		return "fetch_error"
	case errors.As(err, &pe):
		return "processing_error"
	default:
		return "error"
	}
}
