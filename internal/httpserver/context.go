package httpserver

import "context"

type holderKey struct{}

func withSubjectHolder(ctx context.Context, holder *string) context.Context {
	return context.WithValue(ctx, holderKey{}, holder)
}

func subjectHolder(ctx context.Context) *string {
	holder, _ := ctx.Value(holderKey{}).(*string)
	return holder
}
