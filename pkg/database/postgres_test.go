package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BenjiKandl/apertif/pkg/config"
)

func TestPostgresConfigFrom(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "apertif",
		Password: "secret",
		DBName:   "dinners",
		SSLMode:  "require",
		MaxConns: 4,
	}

	pc := PostgresConfigFrom(cfg, true)

	assert.Equal(t, "db", pc.Host)
	assert.Equal(t, int32(4), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.True(t, pc.EnableTracing)
	assert.Equal(t, "host=db port=5433 user=apertif password=secret dbname=dinners sslmode=require", pc.DSN())
}
