package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BenjiKandl/apertif/pkg/database"
)

func TestPostgresEventStore_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	ctx := context.Background()
	cfg := database.DefaultPostgresConfig()
	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		cfg.Host = host
	}
	cfg.Password = os.Getenv("TEST_DB_PASSWORD")

	db, err := database.NewPostgres(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresEventStore(db.Pool())
	require.NoError(t, store.Migrate(ctx))

	testEventStore(t, store)
}
