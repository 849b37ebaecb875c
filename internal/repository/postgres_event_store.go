package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BenjiKandl/apertif/internal/domain"
)

// PostgresSchema creates the document table for the postgres backend
const PostgresSchema = `CREATE TABLE IF NOT EXISTS event_documents (
	id         TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresEventStore implements EventStore using PostgreSQL
type PostgresEventStore struct {
	pool *pgxpool.Pool
}

// NewPostgresEventStore creates a new PostgresEventStore
func NewPostgresEventStore(pool *pgxpool.Pool) *PostgresEventStore {
	return &PostgresEventStore{pool: pool}
}

// Migrate creates the document table if it does not exist
func (s *PostgresEventStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, PostgresSchema); err != nil {
		return domain.NewStorageError("migrate", err)
	}
	return nil
}

// Create inserts the document under a fresh id
func (s *PostgresEventStore) Create(ctx context.Context, doc *domain.Document) (string, error) {
	body, err := domain.NewDocument(doc.Event).Marshal()
	if err != nil {
		return "", domain.NewStorageError("create event", err)
	}

	return allocateID("create event", func(id string) (bool, error) {
		tag, err := s.pool.Exec(ctx, `
			INSERT INTO event_documents (id, body)
			VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, id, body)
		if err != nil {
			return false, domain.NewStorageError("create event", err)
		}
		return tag.RowsAffected() == 1, nil
	})
}

// Load reads and decodes the document
func (s *PostgresEventStore) Load(ctx context.Context, id string) (*domain.Document, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, `SELECT body FROM event_documents WHERE id = $1`, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
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

// Replace overwrites the document body
func (s *PostgresEventStore) Replace(ctx context.Context, id string, doc *domain.Document) error {
	body, err := doc.Marshal()
	if err != nil {
		return domain.NewStorageError("replace event", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE event_documents
		SET body = $2, updated_at = NOW()
		WHERE id = $1
	`, id, body)
	if err != nil {
		return domain.NewStorageError("replace event", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
