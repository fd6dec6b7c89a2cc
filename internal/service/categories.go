package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/apperrors"
	"github.com/Totarae/EasyLink/internal/model"
	"github.com/Totarae/EasyLink/internal/repositories"
)

// CategoryService реализует операции над категориями.
type CategoryService struct {
	Categories repositories.CategoryRepositoryInterface
	Logger     *zap.Logger
}

// NewCategoryService создаёт новый экземпляр CategoryService.
func NewCategoryService(categories repositories.CategoryRepositoryInterface, logger *zap.Logger) *CategoryService {
	return &CategoryService{Categories: categories, Logger: logger}
}

// List возвращает все категории с числом ссылок.
func (s *CategoryService) List(ctx context.Context) ([]*model.Category, error) {
	cats, err := s.Categories.List(ctx)
	if err != nil {
		s.Logger.Error("failed to list categories", zap.Error(err))
		return nil, apperrors.NewInternal(err)
	}
	return cats, nil
}

// Get возвращает одну категорию.
func (s *CategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	cat, err := s.Categories.Get(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	return cat, nil
}

// Create сохраняет категорию; при совпадении имени возвращается
// уже существующая строка, а не ошибка.
func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	cat, err := s.Categories.Create(ctx, name, time.Now().UTC())
	if err != nil {
		return nil, s.mapError(err)
	}
	return cat, nil
}

// Rename меняет имя категории.
func (s *CategoryService) Rename(ctx context.Context, id int64, name string) (*model.Category, error) {
	cat, err := s.Categories.Rename(ctx, id, name)
	if err != nil {
		return nil, s.mapError(err)
	}
	return cat, nil
}

// Delete удаляет категорию, перенося либо обнуляя её ссылки.
func (s *CategoryService) Delete(ctx context.Context, id int64, reassignTo *int64) error {
	if err := s.Categories.Delete(ctx, id, reassignTo); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *CategoryService) mapError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewNotFound("category not found")
	case errors.Is(err, repositories.ErrDuplicateName):
		return apperrors.NewConflict("category already exists")
	case errors.Is(err, repositories.ErrBadReassignTarget):
		return apperrors.NewValidation("reassign target category does not exist")
	default:
		s.Logger.Error("category repository error", zap.Error(err))
		return apperrors.NewInternal(err)
	}
}
