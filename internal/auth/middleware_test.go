package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testToken = "0123456789abcdef-test"

func serve(tokens []string, header string) (*httptest.ResponseRecorder, string) {
	var subject string
	h := Require(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = Subject(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	r := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec, subject
}

func TestRequire(t *testing.T) {
	tokens := []string{"other-token-value-xx", testToken}

	cases := []struct {
		name    string
		header  string
		code    int
		subject string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + testToken, http.StatusUnauthorized, ""},
		{"empty credential", "Bearer ", http.StatusUnauthorized, ""},
		{"wrong token", "Bearer nope-nope-nope-nope", http.StatusForbidden, ""},
		{"valid token", "Bearer " + testToken, http.StatusNoContent, "token#1"},
		{"scheme case-insensitive", "bearer " + testToken, http.StatusNoContent, "token#1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, sub := serve(tokens, tc.header)
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.subject, sub)
		})
	}
}

func TestRequire_NoTokensIsOpen(t *testing.T) {
	rec, sub := serve(nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, sub)
}

func TestSubject_Unset(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := Subject(r.Context())
	assert.False(t, ok)
}
