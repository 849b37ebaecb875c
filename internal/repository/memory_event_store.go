package repository

import (
	"context"
	"sync"

	"github.com/BenjiKandl/apertif/internal/domain"
)

// MemoryEventStore implements EventStore in process memory
type MemoryEventStore struct {
	mu   sync.RWMutex
	docs map[string]*domain.Document
}

// NewMemoryEventStore creates an empty MemoryEventStore
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{docs: make(map[string]*domain.Document)}
}

// Create stores a copy of doc with an empty guest list
func (s *MemoryEventStore) Create(ctx context.Context, doc *domain.Document) (string, error) {
	stored := domain.NewDocument(doc.Clone().Event)

	return allocateID("create event", func(id string) (bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, exists := s.docs[id]; exists {
			return false, nil
		}
		s.docs[id] = stored
		return true, nil
	})
}

// Load returns a copy of the stored document
func (s *MemoryEventStore) Load(ctx context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return doc.Clone(), nil
}

// Replace overwrites the stored document
func (s *MemoryEventStore) Replace(ctx context.Context, id string, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return domain.ErrEventNotFound
	}
	s.docs[id] = doc.Clone()
	return nil
}
