package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteCollection stores documents as JSON rows of a shared documents
// table, keyed by a random UUID.
type SQLiteCollection struct {
	db   *sql.DB
	name string
}

// NewSQLiteCollection creates the documents table if needed and returns the
// named collection on db.
func NewSQLiteCollection(ctx context.Context, db *sql.DB, name string) (*SQLiteCollection, error) {
	if name == "" {
		return nil, errors.New("leads: collection name is empty")
	}
	c := &SQLiteCollection{db: db, name: name}
	if err := c.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SQLiteCollection) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS documents (
  id TEXT PRIMARY KEY,
  collection TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, created_at);
`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Name returns the collection name.
func (c *SQLiteCollection) Name() string {
	return c.name
}

// Add stores doc under a new UUID.
func (c *SQLiteCollection) Add(ctx context.Context, doc Lead) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	id := uuid.NewString()
	const stmt = `
INSERT INTO documents (id, collection, data, created_at)
VALUES (?, ?, ?, ?);
`
	created := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := c.db.ExecContext(ctx, stmt, id, c.name, string(data), created); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

// Get loads one document.
func (c *SQLiteCollection) Get(ctx context.Context, id string) (Lead, error) {
	var data string
	err := c.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?;`, c.name, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Lead{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Lead{}, fmt.Errorf("get document: %w", err)
	}
	var doc Lead
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return Lead{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	return doc, nil
}

// Count returns the number of documents in the collection.
func (c *SQLiteCollection) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?;`, c.name).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}
