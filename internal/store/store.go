// Package store defines the outbound port to the document collection that
// holds transactions, plus the strict codec between raw documents and the
// domain type.
package store

import (
	"context"
	"errors"
)

// Document is the raw shape a backend returns. Fields carries whatever the
// backend stored; the codec decides whether it is trustworthy.
type Document struct {
	ID     string
	Fields map[string]any
}

// ErrNotFound is returned by Overwrite when the target id no longer exists.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the contract every backend must satisfy. ListAll is
// eventually consistent with prior writes from the same client. Remove is
// idempotent: removing an absent id is not an error.
type DocumentStore interface {
	ListAll(ctx context.Context) ([]Document, error)
	Create(ctx context.Context, fields map[string]any) (string, error)
	Overwrite(ctx context.Context, id string, fields map[string]any) error
	Remove(ctx context.Context, id string) error
}

// Putter is an optional capability: write a document under a caller-chosen
// id, creating or replacing as needed. The mirror worker relies on it to
// keep ids aligned between primary and mirror.
type Putter interface {
	Put(ctx context.Context, id string, fields map[string]any) error
}

// Getter is an optional capability: fetch one document by id without
// listing the whole collection.
type Getter interface {
	Get(ctx context.Context, id string) (Document, error)
}
