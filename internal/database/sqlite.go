package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLite реализует DB поверх встраиваемой файловой базы (modernc, без cgo).
type SQLite struct {
	Conn   *sql.DB
	Logger *zap.Logger
}

// NewSQLite открывает (при необходимости создаёт) файл базы данных.
// Пул ограничен одним соединением: запись в SQLite и так
// сериализуется, а ":memory:" в тестах остаётся одной базой.
func NewSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := conn.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &SQLite{Conn: conn, Logger: logger}, nil
}

func (db *SQLite) Engine() string { return "sqlite" }

func (db *SQLite) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := db.Conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (db *SQLite) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{row: db.Conn.QueryRowContext(ctx, query, args...)}
}

func (db *SQLite) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: rows}, nil
}

// Begin открывает транзакцию.
func (db *SQLite) Begin(ctx context.Context) (Tx, error) {
	tx, err := db.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return sqlTx{tx: tx}, nil
}

// Ping проверяет доступность базы.
func (db *SQLite) Ping(ctx context.Context) error {
	return db.Conn.PingContext(ctx)
}

// Close закрывает соединение.
func (db *SQLite) Close() {
	if err := db.Conn.Close(); err != nil && db.Logger != nil {
		db.Logger.Error("failed to close sqlite connection", zap.Error(err))
	}
}

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

type sqlRows struct {
	rows *sql.Rows
}

func (r sqlRows) Next() bool             { return r.rows.Next() }
func (r sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRows) Err() error             { return r.rows.Err() }
func (r sqlRows) Close()                 { _ = r.rows.Close() }

type sqlTx struct {
	tx *sql.Tx
}

func (t sqlTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t sqlTx) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{row: t.tx.QueryRowContext(ctx, query, args...)}
}

func (t sqlTx) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: rows}, nil
}

func (t sqlTx) Commit(ctx context.Context) error { return t.tx.Commit() }

func (t sqlTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
