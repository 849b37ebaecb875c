package repository

import (
	"context"
	"time"

	"github.com/BenjiKandl/apertif/internal/domain"
)

// MarkerKeyPrefix namespaces RSVP markers in Redis
const MarkerKeyPrefix = "apertif_rsvp:"

// DefaultMarkerTTL keeps markers long after any dinner has happened
const DefaultMarkerTTL = 90 * 24 * time.Hour

// RedisMarkerStore implements RSVPMarkerStore with expiring keys
type RedisMarkerStore struct {
	client RedisKV
	ttl    time.Duration
}

// NewRedisMarkerStore creates a new RedisMarkerStore
func NewRedisMarkerStore(client RedisKV, ttl time.Duration) *RedisMarkerStore {
	if ttl <= 0 {
		ttl = DefaultMarkerTTL
	}
	return &RedisMarkerStore{client: client, ttl: ttl}
}

func markerKey(deviceID, eventID string) string {
	return MarkerKeyPrefix + deviceID + ":" + eventID
}

// HasMarker checks whether the marker key exists
func (s *RedisMarkerStore) HasMarker(ctx context.Context, deviceID, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, markerKey(deviceID, eventID)).Result()
	if err != nil {
		return false, domain.NewStorageError("check rsvp marker", err)
	}
	return n > 0, nil
}

// SetMarker writes the marker key
func (s *RedisMarkerStore) SetMarker(ctx context.Context, deviceID, eventID string) error {
	if err := s.client.Set(ctx, markerKey(deviceID, eventID), "1", s.ttl).Err(); err != nil {
		return domain.NewStorageError("set rsvp marker", err)
	}
	return nil
}
