// Package worker replicates transactions from the primary store to a
// mirror store. Changes normally arrive over the AMQP feed; a periodic
// reconcile pass catches anything a lost message missed.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/store"
)

// Config holds mirror worker configuration.
type Config struct {
	// ReconcileInterval is how often the full reconcile pass runs.
	ReconcileInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{ReconcileInterval: 5 * time.Minute}
}

// MirrorTarget is what the worker writes to: id-preserving upsert plus
// idempotent remove.
type MirrorTarget interface {
	store.Putter
	Remove(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]store.Document, error)
}

type Mirror struct {
	primary store.DocumentStore
	target  MirrorTarget
	config  Config

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewMirror(primary store.DocumentStore, target MirrorTarget, config Config) *Mirror {
	if config.ReconcileInterval <= 0 {
		config.ReconcileInterval = DefaultConfig().ReconcileInterval
	}
	return &Mirror{primary: primary, target: target, config: config}
}

// HandleChange processes one change message from the feed.
func (m *Mirror) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message", "id", msg.ID, "op", msg.Op)

	switch msg.Op {
	case amqp.OpDelete:
		if err := m.target.Remove(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove mirrored document %s: %w", msg.ID, err)
		}
		return nil
	case amqp.OpUpsert:
		doc, err := m.fetchPrimary(ctx, msg.ID)
		if errors.Is(err, store.ErrNotFound) {
			// deleted again before we got here; mirror the deletion
			if err := m.target.Remove(ctx, msg.ID); err != nil {
				return fmt.Errorf("remove mirrored document %s: %w", msg.ID, err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch primary document %s: %w", msg.ID, err)
		}
		if err := m.target.Put(ctx, doc.ID, doc.Fields); err != nil {
			return fmt.Errorf("mirror document %s: %w", msg.ID, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown change op %q", msg.Op)
	}
}

// Reconcile makes the mirror match the primary: upserts every primary
// document and removes mirrored documents the primary no longer has.
// Per-document failures are logged and counted, never fatal to the pass.
func (m *Mirror) Reconcile(ctx context.Context) error {
	primaryDocs, err := m.primary.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list primary documents: %w", err)
	}

	var failed int
	known := make(map[string]bool, len(primaryDocs))
	for _, doc := range primaryDocs {
		known[doc.ID] = true
		if err := m.target.Put(ctx, doc.ID, doc.Fields); err != nil {
			slog.WarnContext(ctx, "Reconcile upsert failed", "id", doc.ID, "error", err)
			failed++
		}
	}

	mirrored, err := m.target.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list mirrored documents: %w", err)
	}
	for _, doc := range mirrored {
		if known[doc.ID] {
			continue
		}
		if err := m.target.Remove(ctx, doc.ID); err != nil {
			slog.WarnContext(ctx, "Reconcile remove failed", "id", doc.ID, "error", err)
			failed++
		}
	}

	slog.InfoContext(ctx, "Reconcile pass completed",
		"primary", len(primaryDocs), "failed", failed)
	return nil
}

// Start begins the periodic reconcile loop. Returns an error if already
// running.
func (m *Mirror) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("mirror worker is already running")
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	go m.runLoop(ctx)
	return nil
}

func (m *Mirror) runLoop(ctx context.Context) {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.config.ReconcileInterval)
	defer ticker.Stop()

	// one pass up front so a restart converges immediately
	if err := m.Reconcile(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial reconcile failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			if err := m.Reconcile(ctx); err != nil {
				slog.ErrorContext(ctx, "Reconcile failed", "error", err)
			}
		}
	}
}

// Stop halts the reconcile loop and waits for it to finish.
func (m *Mirror) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	doneCh := m.doneCh
	m.mu.Unlock()

	<-doneCh
}

func (m *Mirror) fetchPrimary(ctx context.Context, id string) (store.Document, error) {
	if getter, ok := m.primary.(store.Getter); ok {
		return getter.Get(ctx, id)
	}
	docs, err := m.primary.ListAll(ctx)
	if err != nil {
		return store.Document{}, err
	}
	for _, doc := range docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return store.Document{}, store.ErrNotFound
}
