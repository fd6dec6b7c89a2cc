// Package service содержит прикладную логику поверх репозиториев:
// серверные метки времени, проверку ссылочных полей и перевод
// ошибок хранилища в типизированные ошибки API.
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

// LinkService реализует операции над ссылками.
type LinkService struct {
	Links      repositories.LinkRepositoryInterface
	Categories repositories.CategoryRepositoryInterface
	Logger     *zap.Logger
}

// NewLinkService создаёт новый экземпляр LinkService.
func NewLinkService(links repositories.LinkRepositoryInterface, categories repositories.CategoryRepositoryInterface, logger *zap.Logger) *LinkService {
	return &LinkService{Links: links, Categories: categories, Logger: logger}
}

// List возвращает ссылки по фильтрам.
func (s *LinkService) List(ctx context.Context, filters *model.LinkFilters) ([]*model.Link, error) {
	links, err := s.Links.List(ctx, filters)
	if err != nil {
		s.Logger.Error("failed to list links", zap.Error(err))
		return nil, apperrors.NewInternal(err)
	}
	return links, nil
}

// Get возвращает одну ссылку.
func (s *LinkService) Get(ctx context.Context, id int64) (*model.Link, error) {
	link, err := s.Links.Get(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "link not found")
	}
	return link, nil
}

// Create сохраняет новую ссылку; id и метки времени назначает сервер.
func (s *LinkService) Create(ctx context.Context, req *model.CreateLinkRequest) (*model.Link, error) {
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	link := &model.Link{
		Name:       req.Name,
		URL:        req.URL,
		CategoryID: req.CategoryID,
		Favorite:   req.Favorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Links.Create(ctx, link); err != nil {
		s.Logger.Error("failed to create link", zap.Error(err))
		return nil, apperrors.NewInternal(err)
	}

	// Перечитываем, чтобы вернуть имя категории.
	return s.Get(ctx, link.ID)
}

// Update применяет частичное обновление и возвращает итоговую ссылку.
func (s *LinkService) Update(ctx context.Context, id int64, req *model.UpdateLinkRequest) (*model.Link, error) {
	if req.CategorySet {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.Links.Update(ctx, id, req, time.Now().UTC()); err != nil {
		return nil, s.mapError(err, "link not found")
	}
	return s.Get(ctx, id)
}

// Delete удаляет ссылку.
func (s *LinkService) Delete(ctx context.Context, id int64) error {
	if err := s.Links.Delete(ctx, id); err != nil {
		return s.mapError(err, "link not found")
	}
	return nil
}

func (s *LinkService) checkCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	_, err := s.Categories.Get(ctx, *id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NewValidation("category does not exist")
	}
	if err != nil {
		s.Logger.Error("failed to check category", zap.Error(err))
		return apperrors.NewInternal(err)
	}
	return nil
}

func (s *LinkService) mapError(err error, notFoundMsg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NewNotFound(notFoundMsg)
	}
	s.Logger.Error("link repository error", zap.Error(err))
	return apperrors.NewInternal(err)
}
