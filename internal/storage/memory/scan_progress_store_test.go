package memory

import (
	"context"
	"errors"
	"testing"

	"cardano-pool-sentinel/internal/storage"
)

func TestScanProgressStore_EmptyReturnsNotFound(t *testing.T) {
	store := NewScanProgressStore()

	_, err := store.GetLastHeight(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on fresh store, got %v", err)
	}
}

func TestScanProgressStore_SetAndGet(t *testing.T) {
	store := NewScanProgressStore()
	ctx := context.Background()

	if err := store.SetLastHeight(ctx, 1000); err != nil {
		t.Fatalf("SetLastHeight failed: %v", err)
	}

	h, err := store.GetLastHeight(ctx)
	if err != nil {
		t.Fatalf("GetLastHeight failed: %v", err)
	}
	if h != 1000 {
		t.Errorf("Expected height 1000, got %d", h)
	}

	// Upsert semantics: later set replaces
	if err := store.SetLastHeight(ctx, 1005); err != nil {
		t.Fatalf("SetLastHeight failed: %v", err)
	}
	h, _ = store.GetLastHeight(ctx)
	if h != 1005 {
		t.Errorf("Expected height 1005, got %d", h)
	}
}

func TestScanProgressStore_NegativeHeight(t *testing.T) {
	store := NewScanProgressStore()

	if err := store.SetLastHeight(context.Background(), -1); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
