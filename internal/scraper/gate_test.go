package scraper

import (
	"context"
	"testing"
	"time"
)

func TestDuplicateGateIdempotent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	publishedAt := time.Unix(1700000000, 0).UTC()
	store.seed("Known Title", publishedAt)

	gate := NewDuplicateGate(store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		found, err := gate.Exists(ctx, "Known Title", publishedAt)
		if err != nil {
			t.Fatalf("Exists error on call %d: %v", i+1, err)
		}
		if !found {
			t.Fatalf("expected duplicate on call %d", i+1)
		}
	}

	for i := 0; i < 2; i++ {
		found, err := gate.Exists(ctx, "Unknown Title", publishedAt)
		if err != nil {
			t.Fatalf("Exists error on call %d: %v", i+1, err)
		}
		if found {
			t.Fatalf("did not expect duplicate on call %d", i+1)
		}
	}
}

func TestDuplicateGateExactTimestamp(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	publishedAt := time.Unix(1700000000, 0).UTC()
	store.seed("Same Title", publishedAt)

	gate := NewDuplicateGate(store)

	found, err := gate.Exists(context.Background(), "Same Title", publishedAt.Add(time.Second))
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if found {
		t.Fatal("a one-second difference must not match")
	}
}
