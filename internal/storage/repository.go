package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"fintrack/internal/log"
)

// SQLiteRepository is a blob.Store backed by a single SQLite table.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

// NewSQLiteRepository opens dbPath, creating its directory, and applies the
// migrations. A nil logger discards output.
func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get implements blob.Store
func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	b, err := r.queries.GetBlob(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get blob %s: %w", key, err)
	}
	return b.Value, true, nil
}

// Set implements blob.Store
func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	if err := r.queries.UpsertBlob(ctx, UpsertBlobParams{Key: key, Value: value}); err != nil {
		return fmt.Errorf("upsert blob %s: %w", key, err)
	}
	r.logger.DebugContext(ctx, "Blob saved to SQLite", log.FieldKey, key, log.FieldBytes, len(value))
	return nil
}

// Keys lists every stored key.
func (r *SQLiteRepository) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.queries.ListBlobKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blob keys: %w", err)
	}
	return keys, nil
}
