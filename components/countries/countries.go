// components/countries/countries.go
//
// Countries component: CRUD and query endpoints over the country table.
//
// Context
// -------
// Mounted at /api/countries by component.Mount.  Every list-shaped answer
// (list, search, by-language, by-borders, same-region) is paginated with
// `?page=N` and uses the list projection; single-record answers use the
// detail projection.  Errors go through component.Error, so the status
// mapping lives in one place.
//
// Routes
// ------
//
//	GET    /                    ?page&search (alias q)
//	POST   /
//	GET    /search              ?q&page
//	GET    /by-language         ?language&page
//	GET    /by-borders          ?codes=FRA,DEU&page
//	GET    /mine
//	GET    /code/{cca3}
//	DELETE /code/{cca3}
//	GET    /{id}
//	PUT    /{id}
//	DELETE /{id}
//	GET    /{id}/same-region    ?page
//
// Notes
// -----
//   - Static segments are registered before /{id}; chi prefers them anyway,
//     but the order keeps the table above honest.
//   - Oxford commas, two spaces after periods.

package countries

import (
	"errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/countries/internal/component"
	"github.com/yanizio/countries/internal/country"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves /api/countries.
type Component struct {
	store  country.Store
	engine *country.Engine
	log    *zap.SugaredLogger
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key and mount segment.
func (c *Component) Name() string { return "countries" }

// Init captures the shared store and query engine.
func (c *Component) Init(d component.Deps) error {
	if d.Store == nil || d.Engine == nil {
		return errors.New("countries: store and engine are required")
	}
	c.store, c.engine = d.Store, d.Engine
	c.log = d.Log
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	return nil
}

// Routes builds the router mounted at /api/countries.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.list)
	r.Post("/", c.create)

	r.Get("/search", c.search)
	r.Get("/by-language", c.byLanguage)
	r.Get("/by-borders", c.byBorders)
	r.Get("/mine", c.mine)

	r.Get("/code/{cca3}", c.getByCode)
	r.Delete("/code/{cca3}", c.deleteByCode)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", c.get)
		r.Put("/", c.update)
		r.Delete("/", c.delete)
		r.Get("/same-region", c.sameRegion)
	})
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }
