// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web imports the
// component packages for their side effect, then calls Mount, which runs
// every component's Init with the shared Deps and mounts its Routes() at
// "/<name>" under the caller's router (cmd/web passes the /api subrouter).

package component

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/countries/internal/country"
	"github.com/yanizio/countries/internal/synchronizer"
)

// Syncer is the slice of *synchronizer.Synchronizer components need.
type Syncer interface {
	Sync(ctx context.Context) (synchronizer.Result, error)
}

// Deps are the shared services handed to every component's Init.
type Deps struct {
	Store  country.Store
	Engine *country.Engine
	Sync   Syncer
	Log    *zap.SugaredLogger
}

// Component contract.
//
// Routes() is called once, after Init, and mounted at "/"+Name():
//
//	r := chi.NewRouter()
//	r.Get("/", c.list)
//	r.Get("/{id}", c.get)
//	return r
type Component interface {
	Name() string
	Init(Deps) error
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.  Registering the
// same name twice panics.
func Register(c Component) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[c.Name()]; dup {
		panic("component: duplicate registration of " + c.Name())
	}
	registry[c.Name()] = c
}

// All returns every registered component ordered by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount initialises every registered component and mounts its routes on r.
func Mount(r chi.Router, deps Deps) error {
	for _, c := range All() {
		if err := c.Init(deps); err != nil {
			return fmt.Errorf("component %s init: %w", c.Name(), err)
		}
		r.Mount("/"+c.Name(), c.Routes())
		if deps.Log != nil {
			deps.Log.Debugw("component mounted", "name", c.Name())
		}
	}
	return nil
}

// unregister drops a component; tests only.
func unregister(name string) {
	mu.Lock()
	delete(registry, name)
	mu.Unlock()
}
