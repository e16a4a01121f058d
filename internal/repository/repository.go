// Package repository owns the canonical in-memory transaction list for the
// session and mediates every access to the document store. Local state is
// never trusted as the source of truth: each mutation is followed by a full
// re-fetch from the store.
package repository

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tracker/internal/core"
	"tracker/internal/store"
)

type Repository struct {
	store store.DocumentStore

	mu    sync.Mutex
	cache []core.Transaction

	// now is swappable for tests
	now func() time.Time
}

// Outcome reports the result of a best-effort bulk delete. Failed ids are
// recorded but individual failures never abort the batch.
type Outcome struct {
	Succeeded []string
	Failed    []string
}

func New(s store.DocumentStore) *Repository {
	return &Repository{store: s, now: time.Now}
}

// List fetches the full current snapshot from the store and replaces the
// local cache wholesale. Transport failures come back as a FetchError and
// are not retried. Documents that fail the strict schema are skipped and
// logged rather than trusted.
func (r *Repository) List(ctx context.Context) ([]core.Transaction, error) {
	docs, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	txns := make([]core.Transaction, 0, len(docs))
	for _, doc := range docs {
		tx, err := store.DecodeDocument(doc)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed document", "id", doc.ID, "error", err)
			continue
		}
		txns = append(txns, tx)
	}

	r.mu.Lock()
	r.cache = txns
	r.mu.Unlock()

	return r.Snapshot(), nil
}

// Add constructs a record with the derived type and current timestamp,
// submits it, and returns it with the store-assigned id merged in.
func (r *Repository) Add(ctx context.Context, name string, amount float64) (core.Transaction, error) {
	tx := core.Transaction{
		Name:   name,
		Amount: amount,
		Type:   core.TypeForAmount(amount),
		Date:   r.now(),
	}

	id, err := r.store.Create(ctx, store.EncodeTransaction(tx))
	if err != nil {
		return core.Transaction{}, &WriteError{Op: "add", Err: err}
	}
	tx.ID = id

	if _, err := r.List(ctx); err != nil {
		return tx, err
	}
	return tx, nil
}

// Update overwrites all fields for an existing id: name, amount, recomputed
// type, refreshed timestamp. A vanished id surfaces as a NotFoundError.
func (r *Repository) Update(ctx context.Context, id, name string, amount float64) error {
	tx := core.Transaction{
		ID:     id,
		Name:   name,
		Amount: amount,
		Type:   core.TypeForAmount(amount),
		Date:   r.now(),
	}

	if err := r.store.Overwrite(ctx, id, store.EncodeTransaction(tx)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{ID: id}
		}
		return &WriteError{Op: "update", Err: err}
	}

	_, err := r.List(ctx)
	return err
}

// Delete removes one record. A failing delete is logged, not surfaced as
// fatal: the caller re-fetches regardless and the snapshot reflects
// whatever the store actually holds.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Remove(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Delete failed", "id", id, "error", err)
	}
	_, err := r.List(ctx)
	return err
}

// ClearAll issues one delete per currently known id, concurrently, and
// returns once every attempt has settled. Per-item failures are swallowed
// into the outcome; a failing delete never aborts the batch.
func (r *Repository) ClearAll(ctx context.Context) (Outcome, error) {
	r.mu.Lock()
	ids := make([]string, len(r.cache))
	for i, tx := range r.cache {
		ids[i] = tx.ID
	}
	r.mu.Unlock()

	var (
		mu      sync.Mutex
		outcome Outcome
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := r.store.Remove(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.WarnContext(gctx, "Clear-all delete failed", "id", id, "error", err)
				outcome.Failed = append(outcome.Failed, id)
			} else {
				outcome.Succeeded = append(outcome.Succeeded, id)
			}
			return nil // failures stay in the outcome, never cancel the group
		})
	}
	_ = g.Wait()

	if _, err := r.List(ctx); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// Snapshot returns a copy of the cached list as of the last successful List.
func (r *Repository) Snapshot() []core.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Transaction, len(r.cache))
	copy(out, r.cache)
	return out
}

// Find returns the cached transaction with the given id.
func (r *Repository) Find(id string) (core.Transaction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.cache {
		if tx.ID == id {
			return tx, true
		}
	}
	return core.Transaction{}, false
}

// SetClock overrides the timestamp source. Intended for tests.
func (r *Repository) SetClock(now func() time.Time) {
	r.now = now
}
