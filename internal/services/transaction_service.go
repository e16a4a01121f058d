// Package services glues the primary document store to the change feed:
// every successful write is followed by a change message so the mirror
// worker can replicate it. Publish failures never fail the user operation.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"tracker/internal/amqp"
	"tracker/internal/store"
)

// ChangePublisher is the slice of the AMQP client this service needs.
type ChangePublisher interface {
	PublishChange(ctx context.Context, id, op string) error
	Close() error
}

// TransactionService wraps a DocumentStore and emits change messages for
// the mirror worker. It satisfies store.DocumentStore itself, so callers
// stay unaware of the feed.
type TransactionService struct {
	primary   store.DocumentStore
	publisher ChangePublisher
}

var _ store.DocumentStore = (*TransactionService)(nil)

func NewTransactionService(primary store.DocumentStore, publisher ChangePublisher) *TransactionService {
	return &TransactionService{primary: primary, publisher: publisher}
}

func (s *TransactionService) ListAll(ctx context.Context) ([]store.Document, error) {
	return s.primary.ListAll(ctx)
}

func (s *TransactionService) Create(ctx context.Context, fields map[string]any) (string, error) {
	id, err := s.primary.Create(ctx, fields)
	if err != nil {
		return "", err
	}
	s.publish(ctx, id, amqp.OpUpsert)
	return id, nil
}

func (s *TransactionService) Overwrite(ctx context.Context, id string, fields map[string]any) error {
	if err := s.primary.Overwrite(ctx, id, fields); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.OpUpsert)
	return nil
}

func (s *TransactionService) Remove(ctx context.Context, id string) error {
	if err := s.primary.Remove(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.OpDelete)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, id, op string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, id, op); err != nil {
		// the write already succeeded locally; the worker's periodic
		// reconcile pass picks up anything a lost message misses
		slog.ErrorContext(ctx, "Failed to publish change message",
			"id", id, "op", op, "error", err)
	}
}

// Close closes the underlying publisher and, when the primary store owns
// resources, the store as well.
func (s *TransactionService) Close() error {
	var errs []error

	if closer, ok := s.primary.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
