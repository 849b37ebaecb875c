package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjiKandl/apertif/internal/domain"
)

// blobServer mimics a JSON document hosting service
type blobServer struct {
	mu     sync.Mutex
	blobs  map[string]string
	nextID int
	status int
	// failNext answers that many requests with 503 before serving normally
	failNext int
	requests int
}

func newBlobServer(t *testing.T) (*blobServer, *httptest.Server) {
	bs := &blobServer{blobs: make(map[string]string), nextID: 1000}
	srv := httptest.NewServer(http.HandlerFunc(bs.serve))
	t.Cleanup(srv.Close)
	return bs, srv
}

func (b *blobServer) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests++
	if b.failNext > 0 {
		b.failNext--
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if b.status != 0 {
		w.WriteHeader(b.status)
		return
	}

	body, _ := io.ReadAll(r.Body)
	id := strings.TrimPrefix(r.URL.Path, "/api/jsonBlob/")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/jsonBlob":
		b.nextID++
		id = fmt.Sprint(b.nextID)
		b.blobs[id] = string(body)
		w.Header().Set("Location", "http://"+r.Host+"/api/jsonBlob/"+id)
		w.WriteHeader(http.StatusCreated)
	case r.Method == http.MethodGet:
		v, ok := b.blobs[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, v)
	case r.Method == http.MethodPut:
		if _, ok := b.blobs[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		b.blobs[id] = string(body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, string(body))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestJSONBlobEventStore(t *testing.T) {
	_, srv := newBlobServer(t)
	testEventStore(t, NewJSONBlobEventStore(srv.URL+"/api/jsonBlob", 0))
}

func TestJSONBlobEventStore_IDFromLocation(t *testing.T) {
	_, srv := newBlobServer(t)
	store := NewJSONBlobEventStore(srv.URL+"/api/jsonBlob/", 0)

	id, err := store.Create(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "1001", id)
}

func TestJSONBlobEventStore_Unavailable(t *testing.T) {
	bs, srv := newBlobServer(t)
	bs.status = http.StatusInternalServerError
	store := NewJSONBlobEventStore(srv.URL+"/api/jsonBlob", 0)
	ctx := context.Background()

	_, err := store.Create(ctx, sampleDocument())
	assert.True(t, domain.IsStorageError(err))

	_, err = store.Load(ctx, "1001")
	assert.True(t, domain.IsStorageError(err))

	err = store.Replace(ctx, "1001", sampleDocument())
	assert.True(t, domain.IsStorageError(err))
}

func TestJSONBlobEventStore_Unreachable(t *testing.T) {
	_, srv := newBlobServer(t)
	base := srv.URL + "/api/jsonBlob"
	srv.Close()

	_, err := NewJSONBlobEventStore(base, 0).Load(context.Background(), "1001")
	assert.True(t, domain.IsStorageError(err))
}

func TestJSONBlobEventStore_SingleAttempt(t *testing.T) {
	bs, srv := newBlobServer(t)
	store := NewJSONBlobEventStore(srv.URL+"/api/jsonBlob", 0)
	ctx := context.Background()

	id, err := store.Create(ctx, sampleDocument())
	require.NoError(t, err)

	bs.mu.Lock()
	bs.failNext = 1
	bs.requests = 0
	bs.mu.Unlock()

	_, err = store.Load(ctx, id)
	assert.True(t, domain.IsStorageError(err))

	// the next explicit call succeeds
	_, err = store.Load(ctx, id)
	require.NoError(t, err)

	bs.mu.Lock()
	assert.Equal(t, 2, bs.requests)
	bs.mu.Unlock()
}

func TestJSONBlobEventStore_DocumentTooLarge(t *testing.T) {
	bs, srv := newBlobServer(t)
	store := NewJSONBlobEventStore(srv.URL+"/api/jsonBlob", 0)
	ctx := context.Background()

	id, err := store.Create(ctx, sampleDocument())
	require.NoError(t, err)

	bs.mu.Lock()
	bs.requests = 0
	bs.mu.Unlock()

	doc := sampleDocument()
	doc.Guests = append(doc.Guests, domain.Guest{Name: strings.Repeat("x", maxDocumentSize)})
	err = store.Replace(ctx, id, doc)
	assert.True(t, domain.IsStorageError(err))
	assert.ErrorIs(t, err, errDocumentTooLarge)

	bs.mu.Lock()
	assert.Equal(t, 0, bs.requests, "oversized document must not be sent")
	bs.mu.Unlock()

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, loaded.Guests)
}

func TestJSONBlobEventStore_OversizedRemoteDocument(t *testing.T) {
	bs, srv := newBlobServer(t)
	store := NewJSONBlobEventStore(srv.URL+"/api/jsonBlob", 0)

	bs.mu.Lock()
	bs.blobs["1001"] = `{"event":{"title":"` + strings.Repeat("x", maxDocumentSize) + `"},"guests":[]}`
	bs.mu.Unlock()

	_, err := store.Load(context.Background(), "1001")
	assert.True(t, domain.IsStorageError(err))
	assert.ErrorIs(t, err, errDocumentTooLarge)
}

func TestJSONBlobEventStore_HealthCheck(t *testing.T) {
	bs, srv := newBlobServer(t)
	store := NewJSONBlobEventStore(srv.URL+"/api/jsonBlob", 0)
	ctx := context.Background()

	var _ HealthChecker = store
	assert.NoError(t, store.HealthCheck(ctx))

	bs.mu.Lock()
	bs.status = http.StatusBadGateway
	bs.mu.Unlock()
	assert.Error(t, store.HealthCheck(ctx))

	srv.Close()
	assert.Error(t, store.HealthCheck(ctx))
}

func TestIDFromLocation(t *testing.T) {
	tests := []struct {
		location string
		want     string
		wantErr  bool
	}{
		{"https://jsonblob.com/api/jsonBlob/123456", "123456", false},
		{"/api/jsonBlob/abc12345/", "abc12345", false},
		{"", "", true},
		{"https://jsonblob.com/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := idFromLocation(tt.location)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
