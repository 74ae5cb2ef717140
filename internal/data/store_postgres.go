package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

const DefaultPostgresContextTimeout = 5 * time.Second

// uniqueViolation is the SQLSTATE Postgres reports for duplicate keys.
const uniqueViolation = "23505"

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_collection_user_idx ON documents (collection, (body->>'user_id'));
CREATE UNIQUE INDEX IF NOT EXISTS documents_budget_category_uidx ON documents ((body->>'user_id'), lower(body->>'category'))
	WHERE collection = 'budgets';`

// PostgresStore implements DocumentStore over a single JSONB table.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// EnsureSchema creates the documents table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := contextGenerator(ctx, DefaultPostgresContextTimeout)
	defer cancel()
	_, err := s.DB.ExecContext(ctx, documentsSchema)
	return err
}

func (s *PostgresStore) Insert(ctx context.Context, collection, id string, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	ctx, cancel := contextGenerator(ctx, DefaultPostgresContextTimeout)
	defer cancel()
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3)`,
		collection, id, body)
	return mapUniqueViolation(err)
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	ctx, cancel := contextGenerator(ctx, DefaultPostgresContextTimeout)
	defer cancel()
	var body []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND id = $2`,
		collection, id).Scan(&body)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrGeneralRecordNotFound
		default:
			return nil, err
		}
	}
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *PostgresStore) Replace(ctx context.Context, collection, id string, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	ctx, cancel := contextGenerator(ctx, DefaultPostgresContextTimeout)
	defer cancel()
	result, err := s.DB.ExecContext(ctx,
		`UPDATE documents SET body = $3 WHERE collection = $1 AND id = $2`,
		collection, id, body)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return requireAffected(result)
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := contextGenerator(ctx, DefaultPostgresContextTimeout)
	defer cancel()
	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (s *PostgresStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	var where strings.Builder
	args := []any{collection}
	where.WriteString("collection = $1")
	for _, f := range q.Filters {
		op := "="
		if f.Op == OpNotEqual {
			op = "IS DISTINCT FROM"
		}
		args = append(args, f.Field, f.Value)
		fmt.Fprintf(&where, " AND body->>$%d %s $%d", len(args)-1, op, len(args))
	}

	ctx, cancel := contextGenerator(ctx, DefaultPostgresContextTimeout)
	defer cancel()
	rows, err := s.DB.QueryContext(ctx,
		"SELECT body FROM documents WHERE "+where.String()+" ORDER BY created_at, id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var doc Document
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateRecord
	}
	return err
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGeneralRecordNotFound
	}
	return nil
}
