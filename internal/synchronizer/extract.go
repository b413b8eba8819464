// internal/synchronizer/extract.go
//
// Defensive field extraction from one upstream country object.
//
// Context
// -------
// The upstream schema is loose: nested objects go missing, lists are
// omitted for territories, and numbers occasionally arrive as floats.  A
// single odd field must not sink the whole run, so each field is read with
// an explicit default:
//
//	name.common, name.official, cca2, cca3,
//	flags.png, region, subregion          → ""
//	population                            → 0
//	languages, currencies                 → {}
//	timezones, capital, borders           → []
//
// Only an entry that is not a JSON object at all is rejected here.  Missing
// identity (cca3) is caught later by Record.Validate.
package synchronizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"

	"github.com/yanizio/countries/internal/country"
)

var errNotObject = errors.New("entry is not a JSON object")

// extract converts one raw entry into a normalised Record.
func extract(raw json.RawMessage) (country.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return country.Record{}, errNotObject
	}

	name := object(m, "name")
	rec := country.Record{
		Name:         str(name, "common"),
		OfficialName: str(name, "official"),
		CCA2:         str(m, "cca2"),
		CCA3:         str(m, "cca3"),
		Flag:         str(object(m, "flags"), "png"),
		Region:       str(m, "region"),
		Subregion:    str(m, "subregion"),
		Population:   integer(m, "population"),
		Languages:    stringMap(m, "languages"),
		Timezones:    stringList(m, "timezones"),
		Capitals:     stringList(m, "capital"),
		Currencies:   currencies(m, "currencies"),
		Borders:      stringList(m, "borders"),
		RawData:      country.RawJSON(bytes.Clone(raw)),
	}
	rec.Normalize()
	return rec, nil
}

/*──────────────────────────── field readers ───────────────────────────────*/

func object(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func integer(m map[string]any, key string) int64 {
	n, ok := m[key].(json.Number)
	if !ok {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(f)
	}
	return 0
}

func stringList(m map[string]any, key string) country.StringList {
	items, _ := m[key].([]any)
	out := make(country.StringList, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringMap(m map[string]any, key string) country.StringMap {
	obj := object(m, key)
	out := make(country.StringMap, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func currencies(m map[string]any, key string) country.CurrencyMap {
	obj := object(m, key)
	out := make(country.CurrencyMap, len(obj))
	for code, v := range obj {
		c, _ := v.(map[string]any)
		out[code] = country.Currency{Name: str(c, "name"), Symbol: str(c, "symbol")}
	}
	return out
}
