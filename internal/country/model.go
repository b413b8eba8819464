// internal/country/model.go
//
// `country` table row model.
//
// Context
// -------
// `Record` mirrors one row in the persistent **country** table.  Identity is
// the ISO alpha-3 code (`cca3`); the alpha-2 code (`cca2`) is a secondary
// unique key.  Nested or repeated attributes (languages, currencies,
// timezones, capitals, borders) are stored as JSON columns and scanned into
// the typed collections in columns.go.
//
// Schema reference: see schema.go.
//
// Notes
// -----
//   - `Normalize` must run before every write.  It upper-cases codes and
//     replaces nil collections with empty ones, so readers never nil-check.
//   - `Validate` enforces the required-field rules.  Uniqueness is enforced
//     by the store.
//   - Oxford commas, two spaces after periods.
package country

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Record mirrors one row in the `country` table.
type Record struct {
	ID           int64       `db:"id"            json:"id"`
	Name         string      `db:"name"          json:"name"          validate:"max=255"`
	OfficialName string      `db:"official_name" json:"official_name" validate:"max=255"`
	CCA2         string      `db:"cca2"          json:"cca2"          validate:"omitempty,len=2"`
	CCA3         string      `db:"cca3"          json:"cca3"          validate:"required,len=3"`
	Flag         string      `db:"flag"          json:"flag"          validate:"max=255"`
	Region       string      `db:"region"        json:"region"        validate:"max=100"`
	Subregion    string      `db:"subregion"     json:"subregion"     validate:"max=100"`
	Population   int64       `db:"population"    json:"population"    validate:"gte=0"`
	Languages    StringMap   `db:"languages"     json:"languages"`
	Timezones    StringList  `db:"timezones"     json:"timezones"`
	Capitals     StringList  `db:"capitals"      json:"capitals"`
	Currencies   CurrencyMap `db:"currencies"    json:"currencies"`
	Borders      StringList  `db:"borders"       json:"borders"`
	RawData      RawJSON     `db:"raw_data"      json:"-"`
	CreatedAt    time.Time   `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"    json:"updated_at"`
}

// Currency is one entry of the currencies mapping.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// notAvailable is shown when a record has no capital or timezone.
const notAvailable = "N/A"

// Capital returns the primary capital, or "N/A" when none is known.
func (r *Record) Capital() string {
	if len(r.Capitals) > 0 {
		return r.Capitals[0]
	}
	return notAvailable
}

// PrimaryTimezone returns the first timezone, or "N/A".
func (r *Record) PrimaryTimezone() string {
	if len(r.Timezones) > 0 {
		return r.Timezones[0]
	}
	return notAvailable
}

// Normalize canonicalises codes and defaults empty collections in place.
func (r *Record) Normalize() {
	r.CCA2 = strings.ToUpper(strings.TrimSpace(r.CCA2))
	r.CCA3 = strings.ToUpper(strings.TrimSpace(r.CCA3))
	if r.Languages == nil {
		r.Languages = StringMap{}
	}
	if r.Currencies == nil {
		r.Currencies = CurrencyMap{}
	}
	if r.Timezones == nil {
		r.Timezones = StringList{}
	}
	if r.Capitals == nil {
		r.Capitals = StringList{}
	}
	if r.Borders == nil {
		r.Borders = StringList{}
	}
	if len(r.RawData) == 0 {
		r.RawData = RawJSON("{}")
	}
}

var validate = validator.New()

// Validate reports the first required-field violation as a *ValidationError.
func (r *Record) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: jsonName(fe.StructField()), Reason: fe.Tag()}
	}
	return &ValidationError{Reason: err.Error()}
}

// jsonName maps a struct field to its wire name for error messages.
func jsonName(field string) string {
	switch field {
	case "OfficialName":
		return "official_name"
	case "CCA2":
		return "cca2"
	case "CCA3":
		return "cca3"
	default:
		return strings.ToLower(field)
	}
}
