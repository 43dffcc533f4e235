// Package storetest checks the behaviour every ports.TokenStore must share.
package storetest

import (
	"context"
	"testing"

	"github.com/feedbackhub/portal/internal/core/ports"
)

// Run exercises store. Browser ids are prefixed with t.Name() so runs
// against a shared backend do not collide.
func Run(t *testing.T, store ports.TokenStore) {
	t.Helper()
	ctx := context.Background()
	id := func(s string) string { return t.Name() + "/" + s }

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}

	if _, ok, err := store.Get(ctx, id("missing")); err != nil || ok {
		t.Fatalf("expected no token, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, id("a"), "token-a"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(ctx, id("b"), "token-b"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if tok, ok, err := store.Get(ctx, id("a")); err != nil || !ok || tok != "token-a" {
		t.Fatalf("expected token-a, got %q ok=%v err=%v", tok, ok, err)
	}

	if err := store.Set(ctx, id("a"), "token-a2"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if tok, _, _ := store.Get(ctx, id("a")); tok != "token-a2" {
		t.Fatalf("expected overwrite, got %q", tok)
	}

	if err := store.Clear(ctx, id("a")); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, id("a")); ok {
		t.Fatalf("expected token to be gone after Clear")
	}
	if tok, ok, _ := store.Get(ctx, id("b")); !ok || tok != "token-b" {
		t.Fatalf("Clear must only touch its own browser, got %q ok=%v", tok, ok)
	}

	if err := store.Clear(ctx, id("never-set")); err != nil {
		t.Fatalf("clearing an unknown id must succeed, got %v", err)
	}
}
