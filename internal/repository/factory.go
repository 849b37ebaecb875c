package repository

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/BenjiKandl/apertif/pkg/config"
)

// Backends holds the opened media a store can be built on. Only the one
// matching the selected backend needs to be set.
type Backends struct {
	SQLite   *sqlx.DB
	Postgres *pgxpool.Pool
	Redis    RedisKV
}

// StoreFactory builds the configured EventStore and RSVPMarkerStore
type StoreFactory struct {
	cfg      *config.Config
	backends Backends
}

// NewStoreFactory creates a new StoreFactory
func NewStoreFactory(cfg *config.Config, backends Backends) *StoreFactory {
	return &StoreFactory{cfg: cfg, backends: backends}
}

// EventStore returns the store for cfg.Store.Backend
func (f *StoreFactory) EventStore() (EventStore, error) {
	switch f.cfg.Store.Backend {
	case config.StoreMemory:
		return NewMemoryEventStore(), nil
	case config.StoreSQLite:
		if f.backends.SQLite == nil {
			return nil, fmt.Errorf("sqlite backend selected but no database opened")
		}
		return NewSQLiteEventStore(f.backends.SQLite), nil
	case config.StorePostgres:
		if f.backends.Postgres == nil {
			return nil, fmt.Errorf("postgres backend selected but no pool opened")
		}
		return NewPostgresEventStore(f.backends.Postgres), nil
	case config.StoreRedis:
		if f.backends.Redis == nil {
			return nil, fmt.Errorf("redis backend selected but no client opened")
		}
		return NewRedisEventStore(f.backends.Redis), nil
	case config.StoreJSONBlob:
		timeout := f.cfg.JSONBlob.Timeout
		if timeout < 0 {
			timeout = 0
		}
		return NewJSONBlobEventStore(f.cfg.JSONBlob.URL, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", f.cfg.Store.Backend)
	}
}

// MarkerStore returns the Redis marker store when Redis is available,
// otherwise an in-memory one
func (f *StoreFactory) MarkerStore() RSVPMarkerStore {
	if f.backends.Redis != nil {
		return NewRedisMarkerStore(f.backends.Redis, f.markerTTL())
	}
	return NewMemoryMarkerStore()
}

func (f *StoreFactory) markerTTL() time.Duration {
	if f.cfg.RSVP.MarkerTTL > 0 {
		return f.cfg.RSVP.MarkerTTL
	}
	return DefaultMarkerTTL
}
