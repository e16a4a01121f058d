// Package memory provides an in-process document store. It is the default
// backend and the test double for the repository and HTTP layers.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"tracker/internal/store"
)

type Store struct {
	mu   sync.Mutex
	docs map[string]map[string]any
	// insertion order, so ListAll is deterministic
	order []string

	// Optional failure hooks for tests. When a hook returns a non-nil
	// error the operation fails with it before touching any state.
	FailList   func() error
	FailCreate func(fields map[string]any) error
	FailRemove func(id string) error
}

var _ store.DocumentStore = (*Store)(nil)

func New() *Store {
	return &Store{docs: make(map[string]map[string]any)}
}

func (s *Store) ListAll(_ context.Context) ([]store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailList != nil {
		if err := s.FailList(); err != nil {
			return nil, err
		}
	}

	out := make([]store.Document, 0, len(s.order))
	for _, id := range s.order {
		fields, ok := s.docs[id]
		if !ok {
			continue
		}
		out = append(out, store.Document{ID: id, Fields: copyFields(fields)})
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCreate != nil {
		if err := s.FailCreate(fields); err != nil {
			return "", err
		}
	}

	id := uuid.NewString()
	s.docs[id] = copyFields(fields)
	s.order = append(s.order, id)
	return id, nil
}

func (s *Store) Overwrite(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return store.ErrNotFound
	}
	s.docs[id] = copyFields(fields)
	return nil
}

// Put writes a document under a caller-chosen id, creating or replacing.
func (s *Store) Put(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		s.order = append(s.order, id)
	}
	s.docs[id] = copyFields(fields)
	return nil
}

// Get fetches one document by id.
func (s *Store) Get(_ context.Context, id string) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.docs[id]
	if !ok {
		return store.Document{}, store.ErrNotFound
	}
	return store.Document{ID: id, Fields: copyFields(fields)}, nil
}

// Remove is idempotent: removing an unknown id succeeds.
func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailRemove != nil {
		if err := s.FailRemove(id); err != nil {
			return err
		}
	}

	delete(s.docs, id)
	return nil
}

// Len reports the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
