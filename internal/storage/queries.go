package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Blob struct {
	Key   string
	Value string
}

const getBlob = `SELECT key, value FROM blobs WHERE key = ?`

func (q *Queries) GetBlob(ctx context.Context, key string) (Blob, error) {
	row := q.db.QueryRowContext(ctx, getBlob, key)
	var i Blob
	err := row.Scan(&i.Key, &i.Value)
	return i, err
}

const upsertBlob = `INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

type UpsertBlobParams struct {
	Key   string
	Value string
}

func (q *Queries) UpsertBlob(ctx context.Context, arg UpsertBlobParams) error {
	_, err := q.db.ExecContext(ctx, upsertBlob, arg.Key, arg.Value)
	return err
}

const listBlobKeys = `SELECT key FROM blobs ORDER BY key`

func (q *Queries) ListBlobKeys(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listBlobKeys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		items = append(items, key)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
