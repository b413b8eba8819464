// components/countries/handlers.go

package countries

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/countries/internal/component"
	"github.com/yanizio/countries/internal/country"
	"github.com/yanizio/countries/internal/requestinfo"
)

/*──────────────────────────── collection ───────────────────────────────────*/

func (c *Component) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("search")
	if q == "" {
		q = r.URL.Query().Get("q")
	}
	recs, err := c.engine.Find(r.Context(), q)
	c.respondPage(w, r, recs, err)
}

func (c *Component) create(w http.ResponseWriter, r *http.Request) {
	var rec country.Record
	if err := component.Decode(w, r, &rec); err != nil {
		component.Error(w, r, err)
		return
	}
	rec.ID = 0
	if err := c.store.Create(r.Context(), &rec); err != nil {
		component.Error(w, r, err)
		return
	}
	c.log.Infow("country created", "id", rec.ID, "cca3", rec.CCA3)
	w.Header().Set("Location", "/api/countries/"+strconv.FormatInt(rec.ID, 10))
	component.JSON(w, http.StatusCreated, detailOf(&rec))
}

/*──────────────────────────── queries ──────────────────────────────────────*/

func (c *Component) search(w http.ResponseWriter, r *http.Request) {
	recs, err := c.engine.Search(r.Context(), r.URL.Query().Get("q"))
	c.respondPage(w, r, recs, err)
}

func (c *Component) byLanguage(w http.ResponseWriter, r *http.Request) {
	recs, err := c.engine.ByLanguage(r.Context(), r.URL.Query().Get("language"))
	c.respondPage(w, r, recs, err)
}

func (c *Component) byBorders(w http.ResponseWriter, r *http.Request) {
	var codes []string
	for _, v := range r.URL.Query()["codes"] {
		codes = append(codes, strings.Split(v, ",")...)
	}
	recs, err := c.engine.ByBorders(r.Context(), codes)
	c.respondPage(w, r, recs, err)
}

func (c *Component) sameRegion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		component.Error(w, r, err)
		return
	}
	recs, err := c.engine.SameRegion(r.Context(), id)
	c.respondPage(w, r, recs, err)
}

// mine resolves the caller's country from the GeoIP data requestinfo put on
// the context.
func (c *Component) mine(w http.ResponseWriter, r *http.Request) {
	info := requestinfo.FromContext(r.Context())
	if info == nil || info.Geo.CountryISO == "" {
		component.Error(w, r, country.ErrNotFound)
		return
	}
	rec, err := c.engine.ByCCA2(r.Context(), info.Geo.CountryISO)
	if err != nil {
		component.Error(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, detailOf(rec))
}

/*──────────────────────────── single record ────────────────────────────────*/

func (c *Component) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		component.Error(w, r, err)
		return
	}
	rec, err := c.store.Get(r.Context(), id)
	if err != nil {
		component.Error(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, detailOf(rec))
}

func (c *Component) getByCode(w http.ResponseWriter, r *http.Request) {
	rec, err := c.store.GetByCCA3(r.Context(), chi.URLParam(r, "cca3"))
	if err != nil {
		component.Error(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, detailOf(rec))
}

// update replaces every mutable field of the record; cca3 must match.
func (c *Component) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		component.Error(w, r, err)
		return
	}
	var rec country.Record
	if err := component.Decode(w, r, &rec); err != nil {
		component.Error(w, r, err)
		return
	}
	rec.ID = id
	if err := c.store.Update(r.Context(), &rec); err != nil {
		component.Error(w, r, err)
		return
	}
	c.log.Infow("country updated", "id", rec.ID, "cca3", rec.CCA3)
	component.JSON(w, http.StatusOK, detailOf(&rec))
}

func (c *Component) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		component.Error(w, r, err)
		return
	}
	if err := c.store.Delete(r.Context(), id); err != nil {
		component.Error(w, r, err)
		return
	}
	c.log.Infow("country deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (c *Component) deleteByCode(w http.ResponseWriter, r *http.Request) {
	rec, err := c.store.GetByCCA3(r.Context(), chi.URLParam(r, "cca3"))
	if err != nil {
		component.Error(w, r, err)
		return
	}
	if err := c.store.Delete(r.Context(), rec.ID); err != nil {
		component.Error(w, r, err)
		return
	}
	c.log.Infow("country deleted", "id", rec.ID, "cca3", rec.CCA3)
	w.WriteHeader(http.StatusNoContent)
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// respondPage paginates recs by ?page and writes the list projection.
func (c *Component) respondPage(w http.ResponseWriter, r *http.Request, recs []country.Record, err error) {
	if err != nil {
		component.Error(w, r, err)
		return
	}
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil {
			component.Error(w, r, component.BadRequest("page must be an integer, got %q", v))
			return
		}
		page = n
	}
	component.JSON(w, http.StatusOK, pageOf(country.Paginate(recs, page)))
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, component.BadRequest("invalid id %q", raw)
	}
	return id, nil
}
