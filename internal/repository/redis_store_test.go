package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjiKandl/apertif/internal/domain"
	pkgredis "github.com/BenjiKandl/apertif/pkg/redis"
)

// fakeKV is an in-memory RedisKV
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeKV) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeKV) SetXX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.data[key]; !ok {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeKV) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisEventStore(t *testing.T) {
	testEventStore(t, NewRedisEventStore(newFakeKV()))
}

func TestRedisEventStore_KeyScheme(t *testing.T) {
	kv := newFakeKV()
	store := NewRedisEventStore(kv)

	id, err := store.Create(context.Background(), sampleDocument())
	require.NoError(t, err)

	raw, ok := kv.data["apertif_event_"+id]
	require.True(t, ok)
	assert.Contains(t, raw, `"guests":[]`)
}

func TestRedisEventStore_Unavailable(t *testing.T) {
	kv := newFakeKV()
	kv.err = assert.AnError
	store := NewRedisEventStore(kv)
	ctx := context.Background()

	_, err := store.Create(ctx, sampleDocument())
	assert.True(t, domain.IsStorageError(err))

	_, err = store.Load(ctx, "abc12345")
	assert.True(t, domain.IsStorageError(err))

	err = store.Replace(ctx, "abc12345", sampleDocument())
	assert.True(t, domain.IsStorageError(err))
}

func TestRedisMarkerStore(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewRedisMarkerStore(kv, 0)

	has, err := store.HasMarker(ctx, "device-1", "abc12345")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.SetMarker(ctx, "device-1", "abc12345"))

	has, err = store.HasMarker(ctx, "device-1", "abc12345")
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, DefaultMarkerTTL, kv.ttls["apertif_rsvp:device-1:abc12345"])

	kv.err = assert.AnError
	_, err = store.HasMarker(ctx, "device-1", "abc12345")
	assert.True(t, domain.IsStorageError(err))
}

func TestRedisEventStore_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := pkgredis.DefaultConfig()
	if host := os.Getenv("TEST_REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	client, err := pkgredis.NewClient(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()

	testEventStore(t, NewRedisEventStore(client))
}
