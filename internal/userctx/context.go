// Package userctx carries the authenticated token subject through a request.
package userctx

import "context"

type subjectKey struct{}

// WithSubject returns ctx carrying subject.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// Subject returns the subject set by the auth middleware. Empty subjects
// count as absent.
func Subject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok && subject != ""
}
