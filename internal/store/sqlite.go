package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores saves in a single table.
type SQLite struct {
	conn *sqlx.DB
	log  *slog.Logger
	now  func() time.Time
}

func OpenSQLite(path string, log *slog.Logger) (*SQLite, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	conn, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db := &SQLite{conn: conn, log: log, now: time.Now}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Debug("save store opened", "path", path)
	return db, nil
}

func (db *SQLite) Close() error {
	return db.conn.Close()
}

func (db *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		key TEXT PRIMARY KEY,
		blob BLOB NOT NULL,
		saved_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_saved_at ON saves(saved_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

func (db *SQLite) Save(ctx context.Context, key string, blob []byte) error {
	key = CleanKey(key)
	_, err := db.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO saves (key, blob, saved_at) VALUES (?, ?, ?)",
		key, blob, db.now().UTC())
	if err != nil {
		return fmt.Errorf("write save %q: %w", key, err)
	}
	db.log.Debug("save written", "key", key, "bytes", len(blob))
	return nil
}

func (db *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	key = CleanKey(key)
	var blob []byte
	err := db.conn.GetContext(ctx, &blob, "SELECT blob FROM saves WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read save %q: %w", key, err)
	}
	return blob, nil
}

func (db *SQLite) Delete(ctx context.Context, key string) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM saves WHERE key = ?", CleanKey(key))
	return err
}

// List returns every slot, newest first.
func (db *SQLite) List(ctx context.Context) ([]SlotInfo, error) {
	var rows []SlotInfo
	err := db.conn.SelectContext(ctx, &rows,
		"SELECT key, length(blob) AS bytes, saved_at FROM saves ORDER BY saved_at DESC, key ASC")
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return rows, nil
}
