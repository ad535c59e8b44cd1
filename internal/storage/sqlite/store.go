// Package sqlite provides the SQLite-backed canonical people store.
// Every batch of writes runs inside a single transaction: a fatal
// constraint violation rolls back the whole batch.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentstation/unify/internal/storage/sqlite/migrations"
	"github.com/agentstation/unify/internal/storage/sqlitemigrate"
	"github.com/agentstation/unify/pkg/errors"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists canonical people and their dependent entities.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewValidationError("path", path, "storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Begin starts a batch transaction. Every write in one ingestion batch
// goes through the returned Batch; Commit makes them durable together.
func (s *Store) Begin(ctx context.Context) (*Batch, error) {
	if s == nil || s.sqlDB == nil {
		return nil, errors.New("storage is not configured")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch transaction: %w", err)
	}
	return &Batch{tx: tx}, nil
}

// Batch is one transactional unit of writes.
type Batch struct {
	tx *sql.Tx
}

// Commit makes the batch durable.
func (b *Batch) Commit() error {
	return b.tx.Commit()
}

// Rollback discards the batch. Safe to call after Commit.
func (b *Batch) Rollback() error {
	err := b.tx.Rollback()
	if stderrors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// constraintKind classifies a SQLite error for the typed store error.
// Empty when the error is not a constraint violation.
func constraintKind(err error) string {
	var sqliteErr *msqlite.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return "unique"
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return "foreign_key"
		}
	}
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "unique constraint failed") {
		return "unique"
	}
	if strings.Contains(message, "foreign key constraint failed") {
		return "foreign_key"
	}
	return ""
}

// wrapWrite maps a write failure to a typed constraint error when the
// store rejected the row, or wraps it plainly otherwise.
func wrapWrite(table string, err error) error {
	if err == nil {
		return nil
	}
	if kind := constraintKind(err); kind != "" {
		return errors.NewStoreConstraintError(table, kind, err)
	}
	return fmt.Errorf("write %s: %w", table, err)
}

// nullable maps an empty string to NULL so UNIQUE columns (email,
// phone) never collide on missing values.
func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
