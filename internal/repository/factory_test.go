package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjiKandl/apertif/pkg/config"
	"github.com/BenjiKandl/apertif/pkg/sqlite"
)

func factoryConfig(backend string) *config.Config {
	return &config.Config{
		Store:    config.StoreConfig{Backend: backend},
		JSONBlob: config.JSONBlobConfig{URL: "https://jsonblob.com/api/jsonBlob"},
		RSVP:     config.RSVPConfig{MarkerTTL: time.Hour},
	}
}

func TestStoreFactory_EventStore(t *testing.T) {
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	backends := Backends{SQLite: db.DB(), Redis: newFakeKV()}

	tests := []struct {
		backend string
		want    EventStore
		wantErr bool
	}{
		{config.StoreMemory, &MemoryEventStore{}, false},
		{config.StoreSQLite, &SQLiteEventStore{}, false},
		{config.StoreRedis, &RedisEventStore{}, false},
		{config.StoreJSONBlob, &JSONBlobEventStore{}, false},
		{config.StorePostgres, nil, true},
		{"dropbox", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, err := NewStoreFactory(factoryConfig(tt.backend), backends).EventStore()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}

func TestStoreFactory_MarkerStore(t *testing.T) {
	withRedis := NewStoreFactory(factoryConfig(config.StoreMemory), Backends{Redis: newFakeKV()})
	marker, ok := withRedis.MarkerStore().(*RedisMarkerStore)
	require.True(t, ok)
	assert.Equal(t, time.Hour, marker.ttl)

	withoutRedis := NewStoreFactory(factoryConfig(config.StoreMemory), Backends{})
	assert.IsType(t, &MemoryMarkerStore{}, withoutRedis.MarkerStore())
}
