// internal/country/query.go
//
// Query Engine: read-only filters over the Record Store.
//
// Context
// -------
// The dataset is small (a few hundred rows), so every filter loads the full
// list once and evaluates in process.  This keeps matching semantics the
// same on every driver: MySQL and SQLite disagree on LIKE case rules, and
// the JSON membership checks (languages, borders) have no portable SQL
// form.
//
// Matching
// --------
//   - Case-insensitive comparisons use Unicode case folding from
//     golang.org/x/text/cases, so "ÅLAND" matches "Åland".
//   - Results are sorted by common name, ties broken by id (insertion
//     order).
//
// Notes
// -----
//   - Engine never mutates the store.
//   - Every operation bumps the query counter in internal/metrics.
package country

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/yanizio/countries/internal/metrics"
)

// Reader is the subset of Store the engine needs.
type Reader interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id int64) (*Record, error)
	GetByCCA2(ctx context.Context, cca2 string) (*Record, error)
}

// Engine answers search and filter queries.  Safe for concurrent use.
type Engine struct {
	store Reader
}

// NewEngine returns an Engine reading from store.
func NewEngine(store Reader) *Engine {
	return &Engine{store: store}
}

// All returns every record in name order.
func (e *Engine) All(ctx context.Context) ([]Record, error) {
	metrics.QueryTotal.WithLabelValues("all").Inc()
	return e.filter(ctx, func(*Record) bool { return true })
}

// Search returns records whose common or official name contains q,
// ignoring case.  An empty q is a *MissingParameterError.
func (e *Engine) Search(ctx context.Context, q string) ([]Record, error) {
	metrics.QueryTotal.WithLabelValues("search").Inc()
	if strings.TrimSpace(q) == "" {
		return nil, &MissingParameterError{Param: "q"}
	}
	needle := fold(q)
	return e.filter(ctx, func(r *Record) bool {
		return contains(r.Name, needle) || contains(r.OfficialName, needle)
	})
}

// Find is the broad list search.  q is split on whitespace and every term
// must match at least one of name, official name, either code, region, or
// subregion, in any order.  An empty q returns everything.
func (e *Engine) Find(ctx context.Context, q string) ([]Record, error) {
	metrics.QueryTotal.WithLabelValues("find").Inc()
	terms := strings.Fields(q)
	if len(terms) == 0 {
		return e.filter(ctx, func(*Record) bool { return true })
	}
	for i, t := range terms {
		terms[i] = fold(t)
	}
	return e.filter(ctx, func(r *Record) bool {
		fields := [...]string{r.Name, r.OfficialName, r.CCA2, r.CCA3, r.Region, r.Subregion}
	term:
		for _, t := range terms {
			for _, f := range fields {
				if contains(f, t) {
					continue term
				}
			}
			return false
		}
		return true
	})
}

// SameRegion returns the records sharing the region of id, excluding id.
func (e *Engine) SameRegion(ctx context.Context, id int64) ([]Record, error) {
	metrics.QueryTotal.WithLabelValues("same_region").Inc()
	target, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.filter(ctx, func(r *Record) bool {
		return r.ID != target.ID && r.Region == target.Region
	})
}

// ByLanguage returns records where lang equals, ignoring case, one of the
// language display names.  Language codes are not matched.
func (e *Engine) ByLanguage(ctx context.Context, lang string) ([]Record, error) {
	metrics.QueryTotal.WithLabelValues("by_language").Inc()
	if strings.TrimSpace(lang) == "" {
		return nil, &MissingParameterError{Param: "language"}
	}
	want := fold(strings.TrimSpace(lang))
	return e.filter(ctx, func(r *Record) bool {
		for _, name := range r.Languages {
			if fold(name) == want {
				return true
			}
		}
		return false
	})
}

// ByBorders returns records whose borders share at least one code with
// codes.  Codes are compared upper-cased.  No codes means no matches.
func (e *Engine) ByBorders(ctx context.Context, codes []string) ([]Record, error) {
	metrics.QueryTotal.WithLabelValues("by_borders").Inc()
	want := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			want[c] = struct{}{}
		}
	}
	if len(want) == 0 {
		return []Record{}, nil
	}
	return e.filter(ctx, func(r *Record) bool {
		for _, b := range r.Borders {
			if _, ok := want[strings.ToUpper(b)]; ok {
				return true
			}
		}
		return false
	})
}

// ByCCA2 resolves an alpha-2 code, e.g. from a GeoIP lookup.
func (e *Engine) ByCCA2(ctx context.Context, cca2 string) (*Record, error) {
	metrics.QueryTotal.WithLabelValues("by_cca2").Inc()
	if strings.TrimSpace(cca2) == "" {
		return nil, &MissingParameterError{Param: "cca2"}
	}
	return e.store.GetByCCA2(ctx, cca2)
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func (e *Engine) filter(ctx context.Context, keep func(*Record) bool) ([]Record, error) {
	all, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	SortByName(out)
	return out, nil
}

func contains(haystack, foldedNeedle string) bool {
	return strings.Contains(fold(haystack), foldedNeedle)
}

// fold builds a fresh Caser per call; a Caser must not be shared between
// goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// SortByName orders recs by common name, then by id.
func SortByName(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Name != recs[j].Name {
			return recs[i].Name < recs[j].Name
		}
		return recs[i].ID < recs[j].ID
	})
}
