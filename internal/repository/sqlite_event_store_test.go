package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjiKandl/apertif/internal/domain"
	"github.com/BenjiKandl/apertif/pkg/sqlite"
)

func newSQLiteStore(t *testing.T) (*SQLiteEventStore, *sqlite.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "apertif.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(ctx, SQLiteSchema))
	return NewSQLiteEventStore(db.DB()), db
}

func TestSQLiteEventStore(t *testing.T) {
	store, _ := newSQLiteStore(t)
	testEventStore(t, store)
}

func TestSQLiteEventStore_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	store, db := newSQLiteStore(t)

	_, err := db.DB().ExecContext(ctx, `INSERT INTO event_documents (id, body) VALUES ('broken', '{')`)
	require.NoError(t, err)

	_, err = store.Load(ctx, "broken")
	assert.True(t, domain.IsStorageError(err))
}

func TestSQLiteEventStore_ClosedDatabase(t *testing.T) {
	ctx := context.Background()
	store, db := newSQLiteStore(t)
	require.NoError(t, db.Close())

	_, err := store.Create(ctx, sampleDocument())
	assert.True(t, domain.IsStorageError(err))

	_, err = store.Load(ctx, "abc12345")
	assert.True(t, domain.IsStorageError(err))

	err = store.Replace(ctx, "abc12345", sampleDocument())
	assert.True(t, domain.IsStorageError(err))
}
