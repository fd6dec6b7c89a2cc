package client

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/kvstore"
	"github.com/Totarae/EasyLink/internal/model"
	"github.com/Totarae/EasyLink/internal/snapshot"
)

// Ключи снимков в локальном хранилище.
const (
	linksCacheKey      = "easylink_links_cache"
	categoriesCacheKey = "easylink_categories_cache"
)

// Session связывает HTTP-клиент с локальными снимками коллекций.
// Чтения отдаются из свежего снимка без сетевого вызова; мутации
// применяются оптимистично и затем сверяются с сервером. При отказе
// сервера сессия делает одну принудительную перезагрузку; если и она
// не удалась, остаётся последняя известная копия.
type Session struct {
	api        *Client
	links      *snapshot.Collection[model.Link]
	categories *snapshot.Collection[model.Category]
	clock      snapshot.Clock
	logger     *zap.Logger
}

// NewSession создаёт сессию поверх клиента и локального хранилища.
func NewSession(api *Client, store *kvstore.Store, clock snapshot.Clock, logger *zap.Logger) *Session {
	if clock == nil {
		clock = snapshot.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		api:        api,
		links:      snapshot.NewCollection[model.Link](store, linksCacheKey, clock, snapshot.DefaultMaxAge, logger),
		categories: snapshot.NewCollection[model.Category](store, categoriesCacheKey, clock, snapshot.DefaultMaxAge, logger),
		clock:      clock,
		logger:     logger,
	}
}

// Links возвращает ссылки: из свежего снимка, иначе с сервера.
func (s *Session) Links(ctx context.Context) ([]model.Link, error) {
	if cached := s.links.Read(); len(cached) > 0 {
		return cached, nil
	}
	return s.links.Refresh(ctx, s.fetchLinks)
}

// RefreshLinks принудительно перечитывает ссылки с сервера.
func (s *Session) RefreshLinks(ctx context.Context) ([]model.Link, error) {
	return s.links.Refresh(ctx, s.fetchLinks)
}

// SearchLinks выполняет выборку с фильтрами напрямую на сервере.
// Снимок хранит только полный список, частичные выборки в него не попадают.
func (s *Session) SearchLinks(ctx context.Context, f model.LinkFilters) ([]model.Link, error) {
	return s.api.ListLinks(ctx, f)
}

// Categories возвращает категории: из свежего снимка, иначе с сервера.
func (s *Session) Categories(ctx context.Context) ([]model.Category, error) {
	if cached := s.categories.Read(); len(cached) > 0 {
		return cached, nil
	}
	return s.categories.Refresh(ctx, s.fetchCategories)
}

// RefreshCategories принудительно перечитывает категории с сервера.
func (s *Session) RefreshCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.Refresh(ctx, s.fetchCategories)
}

// CreateLink добавляет ссылку оптимистично: запись с временным
// отрицательным id появляется в снимке до ответа сервера, а после
// ответа замещается серверной версией — ровно одна запись на ссылку.
func (s *Session) CreateLink(ctx context.Context, req model.CreateLinkRequest) (*model.Link, error) {
	now := s.clock.Now().UTC()
	temp := model.Link{
		ID:         snapshot.TempID(s.clock),
		Name:       strings.TrimSpace(req.Name),
		URL:        req.URL,
		CategoryID: req.CategoryID,
		Favorite:   req.Favorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.links.ApplyOptimistic(func(items []model.Link) []model.Link {
		return append([]model.Link{temp}, items...)
	})

	created, err := s.api.CreateLink(ctx, req)
	if err != nil {
		s.recoverLinks(ctx)
		return nil, err
	}

	s.links.ApplyOptimistic(func(items []model.Link) []model.Link {
		for i := range items {
			if items[i].ID == temp.ID {
				items[i] = *created
			}
		}
		return items
	})
	return created, nil
}

// UpdateLink применяет частичное обновление оптимистично и сверяет
// снимок с сервером. Запоздавшая сверка, обогнанная более новой
// локальной правкой, отбрасывается.
func (s *Session) UpdateLink(ctx context.Context, id int64, fields map[string]any) (*model.Link, error) {
	_, token := s.links.ApplyOptimistic(func(items []model.Link) []model.Link {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			applyLinkFields(&items[i], fields)
			items[i].UpdatedAt = s.clock.Now().UTC()
		}
		return items
	})

	updated, err := s.api.UpdateLink(ctx, id, fields)
	if err != nil {
		s.recoverLinks(ctx)
		return nil, err
	}

	s.reconcileLinks(ctx, token)
	return updated, nil
}

// DeleteLink удаляет ссылку оптимистично.
func (s *Session) DeleteLink(ctx context.Context, id int64) error {
	_, token := s.links.ApplyOptimistic(func(items []model.Link) []model.Link {
		next := items[:0]
		for _, item := range items {
			if item.ID != id {
				next = append(next, item)
			}
		}
		return next
	})

	if err := s.api.DeleteLink(ctx, id); err != nil {
		s.recoverLinks(ctx)
		return err
	}

	s.reconcileLinks(ctx, token)
	return nil
}

// ToggleFavorite переключает флаг избранного у ссылки.
func (s *Session) ToggleFavorite(ctx context.Context, id int64) (*model.Link, error) {
	current, err := s.api.GetLink(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.UpdateLink(ctx, id, map[string]any{"favorite": !current.Favorite})
}

// CreateCategory добавляет категорию оптимистично, с тем же циклом
// временный id → серверная версия, что и у ссылок.
func (s *Session) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	temp := model.Category{
		ID:        snapshot.TempID(s.clock),
		Name:      strings.TrimSpace(name),
		CreatedAt: s.clock.Now().UTC(),
	}

	s.categories.ApplyOptimistic(func(items []model.Category) []model.Category {
		return append(items, temp)
	})

	created, err := s.api.CreateCategory(ctx, name)
	if err != nil {
		s.recoverCategories(ctx)
		return nil, err
	}

	s.categories.ApplyOptimistic(func(items []model.Category) []model.Category {
		for i := range items {
			if items[i].ID == temp.ID {
				items[i] = *created
			}
		}
		return items
	})
	return created, nil
}

// RenameCategory переименовывает категорию оптимистично. Снимок ссылок
// сбрасывается: в нём денормализовано старое имя.
func (s *Session) RenameCategory(ctx context.Context, id int64, name string) (*model.Category, error) {
	_, token := s.categories.ApplyOptimistic(func(items []model.Category) []model.Category {
		for i := range items {
			if items[i].ID == id {
				items[i].Name = strings.TrimSpace(name)
			}
		}
		return items
	})

	renamed, err := s.api.RenameCategory(ctx, id, name)
	if err != nil {
		s.recoverCategories(ctx)
		return nil, err
	}

	s.reconcileCategories(ctx, token)
	s.links.Invalidate()
	return renamed, nil
}

// DeleteCategory удаляет категорию оптимистично. Снимок ссылок
// сбрасывается: их привязки к категориям изменились на сервере.
func (s *Session) DeleteCategory(ctx context.Context, id int64, reassignTo *int64) error {
	_, token := s.categories.ApplyOptimistic(func(items []model.Category) []model.Category {
		next := items[:0]
		for _, item := range items {
			if item.ID != id {
				next = append(next, item)
			}
		}
		return next
	})

	if err := s.api.DeleteCategory(ctx, id, reassignTo); err != nil {
		s.recoverCategories(ctx)
		return err
	}

	s.reconcileCategories(ctx, token)
	s.links.Invalidate()
	return nil
}

// Export выгружает базу с сервера.
func (s *Session) Export(ctx context.Context) (*model.ExportData, error) {
	return s.api.Export(ctx)
}

// Import загружает данные на сервер и сбрасывает оба снимка.
func (s *Session) Import(ctx context.Context, req model.ImportRequest) (*model.ImportResult, error) {
	result, err := s.api.Import(ctx, req)
	if err != nil {
		return nil, err
	}
	s.links.Invalidate()
	s.categories.Invalidate()
	return result, nil
}

// Clear стирает все данные на сервере и оба снимка.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.api.Clear(ctx); err != nil {
		return err
	}
	s.links.Invalidate()
	s.categories.Invalidate()
	return nil
}

// Health проверяет живость сервера.
func (s *Session) Health(ctx context.Context) (*model.HealthStatus, error) {
	return s.api.Health(ctx)
}

func (s *Session) fetchLinks(ctx context.Context) ([]model.Link, error) {
	return s.api.ListLinks(ctx, model.LinkFilters{})
}

func (s *Session) fetchCategories(ctx context.Context) ([]model.Category, error) {
	return s.api.ListCategories(ctx)
}

func (s *Session) reconcileLinks(ctx context.Context, token snapshot.Token) {
	if _, err := s.links.Reconcile(ctx, token, s.fetchLinks); err != nil {
		// Сервер подтвердил мутацию, но сверка сорвалась — оптимистичная
		// копия остаётся рабочей до следующей перезагрузки.
		s.logger.Warn("link reconcile failed", zap.Error(err))
	}
}

func (s *Session) reconcileCategories(ctx context.Context, token snapshot.Token) {
	if _, err := s.categories.Reconcile(ctx, token, s.fetchCategories); err != nil {
		s.logger.Warn("category reconcile failed", zap.Error(err))
	}
}

func (s *Session) recoverLinks(ctx context.Context) {
	if _, err := s.links.Refresh(ctx, s.fetchLinks); err != nil {
		s.logger.Warn("link refresh failed, keeping last known snapshot", zap.Error(err))
	}
}

func (s *Session) recoverCategories(ctx context.Context) {
	if _, err := s.categories.Refresh(ctx, s.fetchCategories); err != nil {
		s.logger.Warn("category refresh failed, keeping last known snapshot", zap.Error(err))
	}
}

// applyLinkFields накладывает частичное обновление на локальную копию.
func applyLinkFields(link *model.Link, fields map[string]any) {
	if v, ok := fields["name"].(string); ok {
		link.Name = strings.TrimSpace(v)
	}
	if v, ok := fields["url"].(string); ok {
		link.URL = v
	}
	if v, ok := fields["favorite"].(bool); ok {
		link.Favorite = v
	}
	if raw, ok := fields["categoryId"]; ok {
		switch v := raw.(type) {
		case nil:
			link.CategoryID = nil
			link.CategoryName = ""
		case int64:
			link.CategoryID = &v
		case float64:
			id := int64(v)
			link.CategoryID = &id
		}
	}
}
