package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/BenjiKandl/apertif/internal/domain"
)

// SQLiteSchema creates the document table for the local file backend
const SQLiteSchema = `CREATE TABLE IF NOT EXISTS event_documents (
	id   TEXT PRIMARY KEY,
	body TEXT NOT NULL
)`

// SQLiteEventStore implements EventStore on a single local SQLite file
type SQLiteEventStore struct {
	db *sqlx.DB
}

// NewSQLiteEventStore creates a new SQLiteEventStore. The schema must already
// exist (see SQLiteSchema).
func NewSQLiteEventStore(db *sqlx.DB) *SQLiteEventStore {
	return &SQLiteEventStore{db: db}
}

type documentRow struct {
	ID   string `db:"id"`
	Body string `db:"body"`
}

// Create inserts the document under a fresh id
func (s *SQLiteEventStore) Create(ctx context.Context, doc *domain.Document) (string, error) {
	body, err := domain.NewDocument(doc.Event).Marshal()
	if err != nil {
		return "", domain.NewStorageError("create event", err)
	}

	return allocateID("create event", func(id string) (bool, error) {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO event_documents (id, body) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
			id, string(body))
		if err != nil {
			return false, domain.NewStorageError("create event", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, domain.NewStorageError("create event", err)
		}
		return n == 1, nil
	})
}

// Load reads and decodes the document
func (s *SQLiteEventStore) Load(ctx context.Context, id string) (*domain.Document, error) {
	var row documentRow
	err := s.db.GetContext(ctx, &row, `SELECT id, body FROM event_documents WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("load event", err)
	}

	doc, err := domain.UnmarshalDocument([]byte(row.Body))
	if err != nil {
		return nil, domain.NewStorageError("load event", err)
	}
	return doc, nil
}

// Replace overwrites the document body
func (s *SQLiteEventStore) Replace(ctx context.Context, id string, doc *domain.Document) error {
	body, err := doc.Marshal()
	if err != nil {
		return domain.NewStorageError("replace event", err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE event_documents SET body = ? WHERE id = ?`, string(body), id)
	if err != nil {
		return domain.NewStorageError("replace event", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStorageError("replace event", err)
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
