package tokenstore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, "ticket-1", "user-1", time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	value, err := store.Get(ctx, "ticket-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "user-1" {
		t.Errorf("got %q, want %q", value, "user-1")
	}
}

func TestMemoryStoreMissingToken(t *testing.T) {
	store := NewMemoryStore()

	value, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "" {
		t.Errorf("missing token returned %q, want empty", value)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, "short", "user-1", -time.Second); err != nil {
		t.Fatalf("put: %v", err)
	}

	value, err := store.Get(ctx, "short")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "" {
		t.Errorf("expired token returned %q, want empty", value)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, "ticket-1", "user-1", time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "ticket-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	value, err := store.Get(ctx, "ticket-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "" {
		t.Errorf("deleted token returned %q, want empty", value)
	}
}
