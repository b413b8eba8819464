// internal/auth/context.go
//
// Caller identity carried on the request context.
//
// Usage
// -----
//     // Attach the authenticated subject (done by Require).
//     ctx = auth.WithSubject(ctx, "token#0")
//
//     // Downstream code retrieves it, e.g. for the access log.
//     sub, ok := auth.Subject(ctx)   // "token#0", true
//
// Notes
// -----
// • The subject never contains the token itself, only its position in
//   the configured list, so it is safe to log.
// • Oxford commas, two spaces after periods.

package auth

import "context"

// subjectKey is unexported to avoid context-key collisions.
type subjectKey struct{}

// WithSubject returns a new context carrying the given subject.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// Subject extracts the subject from ctx.  It returns ("", false) if the
// request was not authenticated.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	return s, ok
}
