package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BenjiKandl/apertif/internal/domain"
)

// EventKeyPrefix matches the browser storage key scheme
const EventKeyPrefix = "apertif_event_"

// RedisKV is the subset of go-redis used by the Redis stores
type RedisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	SetXX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisEventStore implements EventStore with one JSON string per event
type RedisEventStore struct {
	client RedisKV
}

// NewRedisEventStore creates a new RedisEventStore
func NewRedisEventStore(client RedisKV) *RedisEventStore {
	return &RedisEventStore{client: client}
}

func eventKey(id string) string {
	return EventKeyPrefix + id
}

// Create writes the document under a fresh key with SETNX
func (s *RedisEventStore) Create(ctx context.Context, doc *domain.Document) (string, error) {
	body, err := domain.NewDocument(doc.Event).Marshal()
	if err != nil {
		return "", domain.NewStorageError("create event", err)
	}

	return allocateID("create event", func(id string) (bool, error) {
		ok, err := s.client.SetNX(ctx, eventKey(id), string(body), 0).Result()
		if err != nil {
			return false, domain.NewStorageError("create event", err)
		}
		return ok, nil
	})
}

// Load reads and decodes the document
func (s *RedisEventStore) Load(ctx context.Context, id string) (*domain.Document, error) {
	body, err := s.client.Get(ctx, eventKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("load event", err)
	}

	doc, err := domain.UnmarshalDocument(body)
	if err != nil {
		return nil, domain.NewStorageError("load event", err)
	}
	return doc, nil
}

// Replace overwrites an existing key with SET XX
func (s *RedisEventStore) Replace(ctx context.Context, id string, doc *domain.Document) error {
	body, err := doc.Marshal()
	if err != nil {
		return domain.NewStorageError("replace event", err)
	}

	ok, err := s.client.SetXX(ctx, eventKey(id), string(body), redis.KeepTTL).Result()
	if err != nil {
		return domain.NewStorageError("replace event", err)
	}
	if !ok {
		return domain.ErrEventNotFound
	}
	return nil
}
