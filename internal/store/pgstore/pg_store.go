package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/talenthub/portal-backend/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	data       JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_data_gin ON documents USING GIN (data jsonb_path_ops);
`

// Store keeps every collection in one JSONB table. Equality filters become a
// single containment (@>) predicate.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the documents table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, collection, id, data)
	if err != nil {
		return store.Wrap(fmt.Sprintf("create %s/%s", collection, id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, data); err != nil {
		return store.Wrap(fmt.Sprintf("set %s/%s", collection, id), err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string, dst any) error {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return store.Wrap(fmt.Sprintf("get %s/%s", collection, id), err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, filters []store.Filter, dst any) error {
	op := "query " + collection

	contains, err := containment(filters)
	if err != nil {
		return err
	}

	query := `
		SELECT data FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, collection, contains)
	if err != nil {
		return store.Wrap(op, err)
	}
	defer rows.Close()

	docs := []map[string]any{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return store.Wrap(op, err)
		}
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal %s document: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return store.Wrap(op, err)
	}

	return store.DecodeList(docs, dst)
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	query := `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`
	res, err := s.db.ExecContext(ctx, query, collection, id, patch)
	if err != nil {
		return store.Wrap(fmt.Sprintf("update %s/%s", collection, id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpdateIf is a single conditional UPDATE; when no row matches, a follow-up
// existence check tells a missing document from a failed condition.
func (s *Store) UpdateIf(ctx context.Context, collection, id string, cond store.Filter, fields map[string]any) error {
	op := fmt.Sprintf("update %s/%s", collection, id)

	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}
	contains, err := containment([]store.Filter{cond})
	if err != nil {
		return err
	}

	query := `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2 AND data @> $4::jsonb
	`
	res, err := s.db.ExecContext(ctx, query, collection, id, patch, contains)
	if err != nil {
		return store.Wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.Wrap(op, err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE collection = $1 AND id = $2)`,
		collection, id,
	).Scan(&exists)
	if err != nil {
		return store.Wrap(op, err)
	}
	if !exists {
		return store.ErrNotFound
	}
	return store.ErrConflict
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return store.Wrap(fmt.Sprintf("delete %s/%s", collection, id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func containment(filters []store.Filter) ([]byte, error) {
	obj := make(map[string]any, len(filters))
	for _, f := range filters {
		obj[f.Field] = f.Value
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filters: %w", err)
	}
	return data, nil
}
