package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tracker/internal/core"
	"tracker/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fields(name string, amount float64) map[string]any {
	return store.EncodeTransaction(core.Transaction{
		Name:   name,
		Amount: amount,
		Type:   core.TypeForAmount(amount),
		Date:   time.Now(),
	})
}

func TestCreateAndListAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.Create(ctx, fields("Salary", 1000))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id2, err := s.Create(ctx, fields("Rent", -400))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	docs, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("ListAll length = %d, want 2", len(docs))
	}
	if docs[0].ID != id1 || docs[1].ID != id2 {
		t.Fatalf("order = [%s %s], want [%s %s]", docs[0].ID, docs[1].ID, id1, id2)
	}

	tx, err := store.DecodeDocument(docs[1])
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if tx.Name != "Rent" || tx.Amount != -400 || tx.Type != core.Expense {
		t.Fatalf("decoded = %+v", tx)
	}
}

func TestOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, fields("Coffee", -5))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Overwrite(ctx, id, fields("Coffee", 10)); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}

	doc, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	tx, err := store.DecodeDocument(doc)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if tx.Amount != 10 || tx.Type != core.Income {
		t.Fatalf("after overwrite: amount=%v type=%s, want 10/income", tx.Amount, tx.Type)
	}
}

func TestOverwriteUnknownID(t *testing.T) {
	s := newTestStore(t)
	err := s.Overwrite(context.Background(), "missing", fields("x", 1))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Overwrite error = %v, want ErrNotFound", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, fields("Coffee", -5))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Remove(ctx, id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, id); err != nil {
		t.Fatalf("second Remove: %v", err)
	}

	docs, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("ListAll length = %d, want 0", len(docs))
	}
}

func TestCreateRejectsMalformedFields(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create(context.Background(), map[string]any{"name": "x"})
	if err == nil {
		t.Fatal("expected an error for missing fields")
	}
}
