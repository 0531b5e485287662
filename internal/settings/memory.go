package settings

import (
	"context"
	"sync"
)

// memoryStore is a development-only in-memory settings store.
// WARNING: state is lost on restart and is not shared across instances.
type memoryStore struct {
	mu  sync.Mutex
	doc *Document
}

// NewMemoryStore returns an empty in-memory store. Exported for tests and
// dev wiring.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Load(_ context.Context) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return Defaults(), nil
	}
	return *s.doc, nil
}

func (s *memoryStore) Save(_ context.Context, doc Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := doc
	s.doc = &copied
	return nil
}
