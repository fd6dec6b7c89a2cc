package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Totarae/EasyLink/internal/database"
	"github.com/Totarae/EasyLink/internal/model"
)

// CategoryRepositoryInterface определяет методы репозитория категорий.
type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]*model.Category, error)
	Get(ctx context.Context, id int64) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	Create(ctx context.Context, name string, now time.Time) (*model.Category, error)
	Rename(ctx context.Context, id int64, name string) (*model.Category, error)
	Delete(ctx context.Context, id int64, reassignTo *int64) error
}

// CategoryRepository реализует CategoryRepositoryInterface поверх database.DB.
type CategoryRepository struct {
	DB database.DB
}

// NewCategoryRepository создаёт новый экземпляр CategoryRepository.
func NewCategoryRepository(db database.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// List возвращает все категории с числом ссылок в каждой.
func (r *CategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	query := `SELECT c.id, c.name, c.created_at, COUNT(l.id)
	          FROM categories c
	          LEFT JOIN links l ON l.category_id = c.id
	          GROUP BY c.id, c.name, c.created_at
	          ORDER BY c.name`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	results := make([]*model.Category, 0)
	for rows.Next() {
		cat := &model.Category{}
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.LinkCount); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		results = append(results, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category rows: %w", err)
	}

	return results, nil
}

// Get извлекает категорию по идентификатору вместе с числом ссылок.
func (r *CategoryRepository) Get(ctx context.Context, id int64) (*model.Category, error) {
	return r.getOne(ctx, `WHERE c.id = ?`, id)
}

// GetByName извлекает категорию по имени. Возвращает ErrNotFound, если её нет.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	return r.getOne(ctx, `WHERE c.name = ?`, name)
}

func (r *CategoryRepository) getOne(ctx context.Context, where string, arg any) (*model.Category, error) {
	query := `SELECT c.id, c.name, c.created_at, COUNT(l.id)
	          FROM categories c
	          LEFT JOIN links l ON l.category_id = c.id
	          ` + where + `
	          GROUP BY c.id, c.name, c.created_at`

	cat := &model.Category{}
	err := r.DB.QueryRow(ctx, query, arg).Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.LinkCount)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return cat, nil
}

// Create сохраняет категорию. Если имя занято, возвращается существующая
// строка: и при обычном повторе, и при проигрыше гонки двух вставок.
func (r *CategoryRepository) Create(ctx context.Context, name string, now time.Time) (*model.Category, error) {
	existing, err := r.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	cat := &model.Category{Name: name, CreatedAt: now}
	insertErr := r.DB.QueryRow(ctx,
		`INSERT INTO categories (name, created_at) VALUES (?, ?) RETURNING id`,
		name, now,
	).Scan(&cat.ID)
	if insertErr == nil {
		return cat, nil
	}

	if database.IsUniqueViolation(insertErr) {
		// Гонка: кто-то успел вставить то же имя между проверкой и вставкой.
		existing, err := r.GetByName(ctx, name)
		if err == nil {
			return existing, nil
		}
		return nil, ErrDuplicateName
	}
	return nil, fmt.Errorf("failed to insert category: %w", insertErr)
}

// Rename меняет имя категории.
func (r *CategoryRepository) Rename(ctx context.Context, id int64, name string) (*model.Category, error) {
	affected, err := r.DB.Exec(ctx, `UPDATE categories SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to rename category: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete удаляет категорию, предварительно перенося или обнуляя её ссылки.
// Перенос и удаление выполняются в одной транзакции: после завершения
// операции ни одна ссылка не указывает на удалённую категорию.
func (r *CategoryRepository) Delete(ctx context.Context, id int64, reassignTo *int64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if reassignTo != nil {
		if *reassignTo == id {
			return ErrBadReassignTarget
		}
		var one int
		err := tx.QueryRow(ctx, `SELECT 1 FROM categories WHERE id = ?`, *reassignTo).Scan(&one)
		if errors.Is(err, database.ErrNoRows) {
			return ErrBadReassignTarget
		}
		if err != nil {
			return fmt.Errorf("failed to check reassign target: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE links SET category_id = ? WHERE category_id = ?`, *reassignTo, id); err != nil {
			return fmt.Errorf("failed to reassign links: %w", err)
		}
	} else {
		if _, err := tx.Exec(ctx, `UPDATE links SET category_id = NULL WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("failed to detach links: %w", err)
		}
	}

	affected, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
