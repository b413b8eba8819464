// internal/component/respond.go
//
// JSON response helpers shared by the API components.
//
// Context
// -------
// Every error leaving a handler goes through Error, which maps the domain
// taxonomy onto HTTP status codes:
//
//	MissingParameter, Validation, bad input   → 400
//	NotFound                                  → 404
//	synchronizer Fetch / Processing failures  → 502
//	anything else                             → 500 (message withheld)
//
// Bodies are always `{"error": "<message>"}`.

package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/countries/internal/country"
	"github.com/yanizio/countries/internal/synchronizer"
)

// ErrBadRequest marks malformed input the domain layer never sees (bad
// path ids, undecodable bodies).
var ErrBadRequest = errors.New("bad request")

// BadRequest returns an error wrapping ErrBadRequest.
func BadRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("json encode", zap.Error(err))
	}
}

// Error writes err as a JSON error body with the mapped status.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = http.StatusText(status)
	}
	JSON(w, status, map[string]string{"error": msg})
}

// StatusOf maps err onto an HTTP status code.
func StatusOf(err error) int {
	var (
		fetchErr *synchronizer.FetchError
		procErr  *synchronizer.ProcessingError
	)
	switch {
	case errors.As(err, &fetchErr), errors.As(err, &procErr):
		return http.StatusBadGateway
	case errors.Is(err, country.ErrMissingParameter),
		errors.Is(err, country.ErrValidation),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, country.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return BadRequest("invalid JSON body: %v", err)
	}
	return nil
}
