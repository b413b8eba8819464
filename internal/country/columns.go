// internal/country/columns.go
//
// JSON-backed column types.
//
// MySQL stores these as JSON, SQLite as TEXT.  Drivers hand back either
// []byte or string, so every Scan accepts both.  A NULL column scans into
// the empty collection, never nil.  Value returns a string because MySQL
// rejects JSON sent with the binary character set.

package country

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringMap is a code → display-name mapping (languages).
type StringMap map[string]string

// CurrencyMap is a currency-code → Currency mapping.
type CurrencyMap map[string]Currency

// StringList is an ordered list (timezones, capitals, borders).
type StringList []string

// RawJSON keeps the upstream payload verbatim.
type RawJSON []byte

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return marshalString(map[string]string(m))
}

func (m *StringMap) Scan(src any) error {
	out := StringMap{}
	if err := scanJSON(src, (*map[string]string)(&out)); err != nil {
		return err
	}
	if out == nil {
		out = StringMap{}
	}
	*m = out
	return nil
}

func (m CurrencyMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return marshalString(map[string]Currency(m))
}

func (m *CurrencyMap) Scan(src any) error {
	out := CurrencyMap{}
	if err := scanJSON(src, (*map[string]Currency)(&out)); err != nil {
		return err
	}
	if out == nil {
		out = CurrencyMap{}
	}
	*m = out
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return marshalString([]string(l))
}

func (l *StringList) Scan(src any) error {
	out := StringList{}
	if err := scanJSON(src, (*[]string)(&out)); err != nil {
		return err
	}
	if out == nil {
		out = StringList{}
	}
	*l = out
	return nil
}

func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "{}", nil
	}
	return string(r), nil
}

func (r *RawJSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = RawJSON("{}")
	case []byte:
		*r = append(RawJSON(nil), v...)
	case string:
		*r = RawJSON(v)
	default:
		return fmt.Errorf("country: cannot scan %T into RawJSON", src)
	}
	return nil
}

// MarshalJSON emits the payload as-is so API consumers see the original
// object, not a base64 string.
func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("{}"), nil
	}
	return r, nil
}

func marshalString(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("country: cannot scan %T into JSON column", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
