package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/apperrors"
	"github.com/Totarae/EasyLink/internal/model"
	"github.com/Totarae/EasyLink/internal/repositories"
)

// TransferService реализует выгрузку, импорт и полную очистку базы.
type TransferService struct {
	Links       repositories.LinkRepositoryInterface
	Categories  repositories.CategoryRepositoryInterface
	Maintenance repositories.MaintenanceRepositoryInterface
	Logger      *zap.Logger
}

// NewTransferService создаёт новый экземпляр TransferService.
func NewTransferService(
	links repositories.LinkRepositoryInterface,
	categories repositories.CategoryRepositoryInterface,
	maintenance repositories.MaintenanceRepositoryInterface,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{Links: links, Categories: categories, Maintenance: maintenance, Logger: logger}
}

// Export собирает полную выгрузку базы.
func (s *TransferService) Export(ctx context.Context) (*model.ExportData, error) {
	links, err := s.Links.List(ctx, &model.LinkFilters{})
	if err != nil {
		s.Logger.Error("failed to export links", zap.Error(err))
		return nil, apperrors.NewInternal(err)
	}
	cats, err := s.Categories.List(ctx)
	if err != nil {
		s.Logger.Error("failed to export categories", zap.Error(err))
		return nil, apperrors.NewInternal(err)
	}

	data := &model.ExportData{
		Version:    model.ExportVersion,
		ExportedAt: time.Now().UTC(),
		Categories: make([]model.Category, 0, len(cats)),
		Links:      make([]model.Link, 0, len(links)),
	}
	for _, c := range cats {
		data.Categories = append(data.Categories, *c)
	}
	for _, l := range links {
		data.Links = append(data.Links, *l)
	}
	return data, nil
}

// Import загружает выгрузку. Категории создаются по имени (повтор имени
// возвращает существующую строку), ссылки дедублицируются по точному
// совпадению URL, ссылки на категории переводятся со старых
// идентификаторов на новые.
func (s *TransferService) Import(ctx context.Context, req *model.ImportRequest) (*model.ImportResult, error) {
	now := time.Now().UTC()

	categoryMap := make(map[int64]int64, len(req.Categories))
	for _, cat := range req.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			continue
		}
		created, err := s.Categories.Create(ctx, name, now)
		if err != nil {
			s.Logger.Warn("failed to import category", zap.String("name", name), zap.Error(err))
			continue
		}
		if cat.ID != 0 {
			categoryMap[cat.ID] = created.ID
		}
	}

	res := &model.ImportResult{}
	for _, item := range req.Links {
		if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.URL) == "" {
			res.Skipped++
			continue
		}

		exists, err := s.Links.ExistsByURL(ctx, item.URL)
		if err != nil {
			s.Logger.Warn("failed to check imported link", zap.String("url", item.URL), zap.Error(err))
			res.Skipped++
			continue
		}
		if exists {
			res.Skipped++
			continue
		}

		var categoryID *int64
		if item.CategoryID != nil {
			if mapped, ok := categoryMap[*item.CategoryID]; ok {
				id := mapped
				categoryID = &id
			} else if _, err := s.Categories.Get(ctx, *item.CategoryID); err == nil {
				categoryID = item.CategoryID
			} else if !errors.Is(err, repositories.ErrNotFound) {
				s.Logger.Warn("failed to resolve imported category", zap.Error(err))
			}
			// Неизвестная категория: ссылка импортируется без неё.
		}

		link := &model.Link{
			Name:       item.Name,
			URL:        item.URL,
			CategoryID: categoryID,
			Favorite:   item.Favorite,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.Links.Create(ctx, link); err != nil {
			s.Logger.Warn("failed to import link", zap.String("url", item.URL), zap.Error(err))
			res.Skipped++
			continue
		}
		res.Imported++
	}

	return res, nil
}

// Clear стирает все ссылки и категории.
func (s *TransferService) Clear(ctx context.Context) error {
	if err := s.Maintenance.ClearAll(ctx); err != nil {
		s.Logger.Error("failed to clear data", zap.Error(err))
		return apperrors.NewInternal(err)
	}
	return nil
}

// Ping проверяет доступность хранилища.
func (s *TransferService) Ping(ctx context.Context) error {
	return s.Maintenance.Ping(ctx)
}
