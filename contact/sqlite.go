package contact

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLStore keeps contacts in a SQLite table.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore creates the contacts table if needed and returns a store on db.
func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	s := &SQLStore{db: db, now: time.Now}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS contacts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  message TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create contacts table: %w", err)
	}
	return nil
}

// Insert validates and stores sub, returning the record with its assigned ID
// and creation time.
func (s *SQLStore) Insert(ctx context.Context, sub Submission) (Contact, error) {
	if err := sub.Validate(); err != nil {
		return Contact{}, err
	}
	created := s.now().UTC().Truncate(time.Millisecond)
	const stmt = `
INSERT INTO contacts (name, email, message, created_at)
VALUES (?, ?, ?, ?);
`
	res, err := s.db.ExecContext(ctx, stmt, sub.Name, sub.Email, sub.Message, created.Format(time.RFC3339Nano))
	if err != nil {
		return Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Contact{}, fmt.Errorf("insert contact id: %w", err)
	}
	return Contact{
		ID:        id,
		Name:      sub.Name,
		Email:     sub.Email,
		Message:   sub.Message,
		CreatedAt: created,
	}, nil
}

// List returns the most recent contacts first.
func (s *SQLStore) List(ctx context.Context, limit int) ([]Contact, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, email, message, created_at
FROM contacts
ORDER BY id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := make([]Contact, 0)
	for rows.Next() {
		var c Contact
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &created); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		if c.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse contact time: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}
