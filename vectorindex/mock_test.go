package vectorindex

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryIndex_UpsertRetrieve(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	if err := idx.Init(ctx, 3); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := idx.Upsert(ctx, 42, []float32{1, 0, 0}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	v, err := idx.Retrieve(ctx, 42)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(v) != 3 || v[0] != 1 {
		t.Fatalf("unexpected vector %v", v)
	}

	if _, err := idx.Retrieve(ctx, 7); !errors.Is(err, ErrVectorNotFound) {
		t.Fatalf("expected ErrVectorNotFound, got %v", err)
	}
}

func TestMemoryIndex_SearchOrdersBySimilarity(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	if err := idx.Upsert(ctx, 1, []float32{1, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Upsert(ctx, 2, []float32{0.9, 0.1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Upsert(ctx, 3, []float32{0, 1, 0}); err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].UserID != 1 || hits[1].UserID != 2 {
		t.Fatalf("unexpected order: %+v", hits)
	}
	if hits[0].Score < hits[1].Score {
		t.Fatalf("scores not descending: %+v", hits)
	}
}

func TestMemoryIndex_Delete(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	if err := idx.Upsert(ctx, 5, []float32{0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Delete(ctx, 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := idx.Retrieve(ctx, 5); !errors.Is(err, ErrVectorNotFound) {
		t.Fatalf("expected ErrVectorNotFound after delete, got %v", err)
	}
	// Deleting an absent point is a no-op.
	if err := idx.Delete(ctx, 5); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestMemoryIndex_FailWith(t *testing.T) {
	idx := NewMemoryIndex()
	idx.FailWith = ErrIndexUnavailable
	ctx := context.Background()

	if _, err := idx.Search(ctx, []float32{1}, 5); !errors.Is(err, ErrIndexUnavailable) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if err := idx.Upsert(ctx, 1, []float32{1}); !errors.Is(err, ErrIndexUnavailable) {
		t.Fatalf("expected injected error, got %v", err)
	}
}
