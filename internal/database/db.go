// Package database предоставляет единый интерфейс запросов поверх
// PostgreSQL (pgxpool) и встраиваемой SQLite (modernc, database/sql).
// Запросы пишутся с плейсхолдерами `?`; адаптер PostgreSQL
// переводит их в позиционные `$n`.
package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	sqlite "modernc.org/sqlite"
)

// ErrNoRows возвращается при отсутствии строк независимо от движка.
var ErrNoRows = errors.New("no rows in result set")

// Row представляет одну строку результата.
type Row interface {
	Scan(dest ...any) error
}

// Rows представляет курсор по результату запроса.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier объединяет операции запросов, общие для соединения и транзакции.
type Querier interface {
	// Exec выполняет запрос и возвращает число затронутых строк.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	// QueryRow выполняет запрос, ожидающий одну строку.
	QueryRow(ctx context.Context, query string, args ...any) Row
	// Query выполняет запрос и возвращает курсор.
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Tx представляет транзакцию. Rollback после Commit безопасен.
type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DB представляет подключение к хранилищу.
type DB interface {
	Querier
	Begin(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
	Close()
	// Engine возвращает имя движка: "postgres" либо "sqlite".
	Engine() string
}

// IsUniqueViolation распознаёт нарушение уникального ограничения
// в ошибках обоих движков.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		// SQLITE_CONSTRAINT_PRIMARYKEY и SQLITE_CONSTRAINT_UNIQUE
		return sqErr.Code() == 1555 || sqErr.Code() == 2067
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
