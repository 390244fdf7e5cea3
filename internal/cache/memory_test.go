package cache_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/attendly/attendly/internal/cache"
)

func TestMemory_SetGet(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	c.Set(ctx, "k", []byte(`{"total":1}`), 0)

	got, ok := c.Get(ctx, "k")

	if !ok || !bytes.Equal(got, []byte(`{"total":1}`)) {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := cache.NewMemory(10 * time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), 0)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestMemory_PerEntryTTLCap(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "short", []byte("v"), 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get(ctx, "short"); ok {
		t.Fatalf("expected capped entry to expire ahead of the default TTL")
	}

	// a cap above the default never extends an entry's life
	c2 := cache.NewMemory(10 * time.Millisecond)

	c2.Set(ctx, "long", []byte("v"), time.Minute)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c2.Get(ctx, "long"); ok {
		t.Fatalf("expected default TTL to hold when the cap is larger")
	}
}

func TestMemory_Delete(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), 0)
	c.Delete(ctx, "k")

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to be deleted")
	}
}
