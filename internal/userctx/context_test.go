package userctx

import (
	"context"
	"testing"
)

func TestSubject(t *testing.T) {
	if _, ok := Subject(context.Background()); ok {
		t.Fatal("expected no subject on a bare context")
	}

	ctx := WithSubject(context.Background(), "dev-user")
	if sub, ok := Subject(ctx); !ok || sub != "dev-user" {
		t.Fatalf("unexpected subject %q (%t)", sub, ok)
	}

	if _, ok := Subject(WithSubject(context.Background(), "")); ok {
		t.Fatal("empty subject must read as absent")
	}
}
