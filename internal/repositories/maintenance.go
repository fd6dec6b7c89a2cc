package repositories

import (
	"context"
	"fmt"

	"github.com/Totarae/EasyLink/internal/database"
)

// MaintenanceRepositoryInterface определяет служебные операции над базой.
type MaintenanceRepositoryInterface interface {
	ClearAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

// MaintenanceRepository реализует MaintenanceRepositoryInterface.
type MaintenanceRepository struct {
	DB database.DB
}

// NewMaintenanceRepository создаёт новый экземпляр MaintenanceRepository.
func NewMaintenanceRepository(db database.DB) *MaintenanceRepository {
	return &MaintenanceRepository{DB: db}
}

// ClearAll очищает обе таблицы в одной транзакции.
// Ссылки удаляются первыми из-за внешнего ключа на категории.
func (r *MaintenanceRepository) ClearAll(ctx context.Context) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM links`); err != nil {
		return fmt.Errorf("failed to clear links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping проверяет доступность хранилища.
func (r *MaintenanceRepository) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}
