package memory

import (
	"context"
	"errors"
	"testing"

	"tracker/internal/store"
)

func TestCreateAssignsUniqueIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id, err := s.Create(ctx, map[string]any{"name": "x"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if id == "" {
			t.Fatal("Create returned empty id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if s.Len() != 10 {
		t.Fatalf("Len = %d, want 10", s.Len())
	}
}

func TestListAllPreservesInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		id, err := s.Create(ctx, map[string]any{"name": name})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, id)
	}

	docs, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("ListAll length = %d, want 3", len(docs))
	}
	for i, doc := range docs {
		if doc.ID != ids[i] {
			t.Errorf("doc %d id = %s, want %s", i, doc.ID, ids[i])
		}
	}
}

func TestOverwriteUnknownID(t *testing.T) {
	s := New()
	err := s.Overwrite(context.Background(), "missing", map[string]any{"name": "x"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Overwrite error = %v, want ErrNotFound", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Create(ctx, map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Remove(ctx, id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	// removing again must not fail
	if err := s.Remove(ctx, id); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestListAllReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Create(ctx, map[string]any{"name": "original"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	docs, _ := s.ListAll(ctx)
	docs[0].Fields["name"] = "mutated"

	docs2, _ := s.ListAll(ctx)
	if docs2[0].Fields["name"] != "original" {
		t.Fatal("ListAll exposed internal state to mutation")
	}
}
