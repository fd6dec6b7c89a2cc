package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/migrations"
)

// Migrate применяет встроенные миграции, соответствующие движку db.
func Migrate(db DB, logger *zap.Logger) error {
	switch d := db.(type) {
	case *SQLite:
		return migrateSQLite(d.Conn, logger)
	case *Postgres:
		return migratePostgres(d.dsn, logger)
	default:
		return fmt.Errorf("migrations are not supported for engine %q", db.Engine())
	}
}

func migrateSQLite(conn *sql.DB, logger *zap.Logger) error {
	src, err := iofs.New(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to load sqlite migrations: %w", err)
	}

	driver, err := sqlitemigrate.WithInstance(conn, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to init sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	return runUp(m, logger)
}

func migratePostgres(dsn string, logger *zap.Logger) error {
	src, err := iofs.New(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to load postgres migrations: %w", err)
	}

	// Отдельное соединение database/sql только на время миграций.
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer conn.Close()

	driver, err := pgxmigrate.WithInstance(conn, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to init postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	return runUp(m, logger)
}

func runUp(m *migrate.Migrate, logger *zap.Logger) error {
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		if logger != nil {
			logger.Info("Схема актуальна, миграции не требуются")
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if logger != nil {
		logger.Info("Миграции применены")
	}
	return nil
}
