// components/syncapi/syncapi.go
//
// Sync component: triggers the Synchronizer over HTTP.
//
// Context
// -------
// Mounted at /api/sync.  POST runs one synchronization and answers with the
// created, updated, and total counts; concurrent POSTs share a single
// upstream run (the Synchronizer collapses them).  GET reports the outcome
// of the most recent run since process start.
//
// Notes
// -----
//   - Failures map to 502 through component.Error; the last-run status
//     keeps the error text for operators.
//   - A caller that disconnects does not cancel the shared run and leaves
//     the last-run status alone.
//   - Oxford commas, two spaces after periods.

package syncapi

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/countries/internal/auth"
	"github.com/yanizio/countries/internal/component"
	"github.com/yanizio/countries/internal/synchronizer"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Status is the GET /api/sync body.
type Status struct {
	LastRunAt *time.Time           `json:"last_run_at"`
	OK        bool                 `json:"ok"`
	Result    *synchronizer.Result `json:"result,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// Component serves /api/sync.
type Component struct {
	syncer component.Syncer
	log    *zap.SugaredLogger
	now    func() time.Time

	mu   sync.Mutex
	last Status
}

// Name returns the canonical component key and mount segment.
func (c *Component) Name() string { return "sync" }

// Init captures the synchronizer.
func (c *Component) Init(d component.Deps) error {
	if d.Sync == nil {
		return errors.New("sync: synchronizer is required")
	}
	c.syncer = d.Sync
	c.log = d.Log
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	if c.now == nil {
		c.now = func() time.Time { return time.Now().UTC() }
	}
	return nil
}

// Routes builds the router mounted at /api/sync.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.status)
	r.Post("/", c.run)
	return r
}

func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) run(w http.ResponseWriter, r *http.Request) {
	sub, _ := auth.Subject(r.Context())
	c.log.Infow("sync requested", "subject", sub)

	res, err := c.syncer.Sync(r.Context())
	if err != nil && r.Context().Err() != nil {
		// Caller went away; the run itself continues and records nothing here.
		c.log.Infow("sync caller disconnected", "subject", sub, "err", err)
		return
	}

	at := c.now()
	c.mu.Lock()
	if err != nil {
		c.last = Status{LastRunAt: &at, Error: err.Error()}
	} else {
		c.last = Status{LastRunAt: &at, OK: true, Result: &res}
	}
	c.mu.Unlock()

	if err != nil {
		component.Error(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, res)
}

func (c *Component) status(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	st := c.last
	c.mu.Unlock()
	component.JSON(w, http.StatusOK, st)
}
