package repository

import (
	"context"
	"sync"
)

// MemoryMarkerStore implements RSVPMarkerStore in process memory
type MemoryMarkerStore struct {
	mu      sync.RWMutex
	markers map[string]struct{}
}

// NewMemoryMarkerStore creates an empty MemoryMarkerStore
func NewMemoryMarkerStore() *MemoryMarkerStore {
	return &MemoryMarkerStore{markers: make(map[string]struct{})}
}

func (s *MemoryMarkerStore) HasMarker(ctx context.Context, deviceID, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.markers[markerKey(deviceID, eventID)]
	return ok, nil
}

func (s *MemoryMarkerStore) SetMarker(ctx context.Context, deviceID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[markerKey(deviceID, eventID)] = struct{}{}
	return nil
}
