package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/database"
	"github.com/Totarae/EasyLink/internal/model"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestDB поднимает SQLite в памяти с применёнными миграциями.
func newTestDB(t *testing.T) database.DB {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.NewSQLite(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(db, logger))
	return db
}

func mustCreateLink(t *testing.T, repo *LinkRepository, name, url string, categoryID *int64, favorite bool, createdAt time.Time) *model.Link {
	t.Helper()
	link := &model.Link{
		Name:       name,
		URL:        url,
		CategoryID: categoryID,
		Favorite:   favorite,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), link))
	require.Positive(t, link.ID)
	return link
}

// Тест создания и чтения ссылки вместе с именем категории
func TestLinkRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepository(db)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	cat, err := categories.Create(ctx, "Work", baseTime)
	require.NoError(t, err)

	created := mustCreateLink(t, links, "Google", "https://google.com", &cat.ID, true, baseTime)

	got, err := links.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Google", got.Name)
	assert.Equal(t, "https://google.com", got.URL)
	assert.True(t, got.Favorite)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, cat.ID, *got.CategoryID)
	assert.Equal(t, "Work", got.CategoryName)
}

// Тест чтения несуществующей ссылки
func TestLinkRepository_GetNotFound(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepository(db)

	_, err := links.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Тест сортировки: избранные всегда сверху, внутри — новые вперёд
func TestLinkRepository_ListFavoriteSort(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepository(db)
	ctx := context.Background()

	oldFav := mustCreateLink(t, links, "old fav", "https://a.example", nil, true, baseTime)
	plain := mustCreateLink(t, links, "plain", "https://b.example", nil, false, baseTime.Add(time.Hour))
	newFav := mustCreateLink(t, links, "new fav", "https://c.example", nil, true, baseTime.Add(2*time.Hour))

	// Запрошенное направление при сортировке по избранному игнорируется.
	got, err := links.List(ctx, &model.LinkFilters{Sort: model.SortFavorite, Order: model.OrderAsc})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, newFav.ID, got[0].ID)
	assert.Equal(t, oldFav.ID, got[1].ID)
	assert.Equal(t, plain.ID, got[2].ID)
}

// Тест сортировки по имени и по дате
func TestLinkRepository_ListSort(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepository(db)
	ctx := context.Background()

	b := mustCreateLink(t, links, "bravo", "https://b.example", nil, false, baseTime)
	a := mustCreateLink(t, links, "alpha", "https://a.example", nil, false, baseTime.Add(time.Hour))

	got, err := links.List(ctx, &model.LinkFilters{Sort: model.SortName, Order: model.OrderAsc})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)

	// По умолчанию новые вперёд.
	got, err = links.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)
}

// Тест фильтров поиска, категории и избранного
func TestLinkRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepository(db)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	cat, err := categories.Create(ctx, "Dev", baseTime)
	require.NoError(t, err)

	golang := mustCreateLink(t, links, "Go docs", "https://go.dev", &cat.ID, false, baseTime)
	mustCreateLink(t, links, "News", "https://news.example.com", nil, true, baseTime.Add(time.Hour))

	// Поиск совпадает и по имени, и по URL.
	got, err := links.List(ctx, &model.LinkFilters{Search: "go.dev"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, golang.ID, got[0].ID)

	got, err = links.List(ctx, &model.LinkFilters{Search: "news"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = links.List(ctx, &model.LinkFilters{CategoryID: &cat.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, golang.ID, got[0].ID)

	fav := true
	got, err = links.List(ctx, &model.LinkFilters{Favorite: &fav})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "News", got[0].Name)

	got, err = links.List(ctx, &model.LinkFilters{Search: "нет такого"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

// Тест постраничной выборки
func TestLinkRepository_ListPagination(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustCreateLink(t, links, "link", "https://example.com/"+string(rune('a'+i)), nil, false, baseTime.Add(time.Duration(i)*time.Minute))
	}

	got, err := links.List(ctx, &model.LinkFilters{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Новые вперёд: вторая страница держит третью и четвёртую по свежести.
	assert.Equal(t, "https://example.com/c", got[0].URL)
	assert.Equal(t, "https://example.com/b", got[1].URL)

	// Пагинация включается только при обоих параметрах.
	got, err = links.List(ctx, &model.LinkFilters{Page: 2})
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

// Тест частичного обновления: нетронутые поля сохраняются
func TestLinkRepository_UpdatePartial(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepository(db)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	cat, err := categories.Create(ctx, "Keep", baseTime)
	require.NoError(t, err)
	link := mustCreateLink(t, links, "Name", "https://example.com", &cat.ID, false, baseTime)

	fav := true
	err = links.Update(ctx, link.ID, &model.UpdateLinkRequest{Favorite: &fav}, baseTime.Add(time.Hour))
	require.NoError(t, err)

	got, err := links.Get(ctx, link.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)
	require.NotNil(t, got.CategoryID, "категория не сбрасывается при обновлении других полей")
	assert.Equal(t, "Keep", got.CategoryName)

	// Явный null снимает категорию.
	err = links.Update(ctx, link.ID, &model.UpdateLinkRequest{CategorySet: true}, baseTime.Add(2*time.Hour))
	require.NoError(t, err)

	got, err = links.Get(ctx, link.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Empty(t, got.CategoryName)
}

// Тест обновления несуществующей ссылки
func TestLinkRepository_UpdateNotFound(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepository(db)

	name := "x"
	err := links.Update(context.Background(), 999, &model.UpdateLinkRequest{Name: &name}, baseTime)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Тест удаления ссылки
func TestLinkRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepository(db)
	ctx := context.Background()

	link := mustCreateLink(t, links, "bye", "https://bye.example", nil, false, baseTime)

	require.NoError(t, links.Delete(ctx, link.ID))
	assert.ErrorIs(t, links.Delete(ctx, link.ID), ErrNotFound)
}

// Тест проверки занятости URL
func TestLinkRepository_ExistsByURL(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepository(db)
	ctx := context.Background()

	mustCreateLink(t, links, "here", "https://here.example", nil, false, baseTime)

	ok, err := links.ExistsByURL(ctx, "https://here.example")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = links.ExistsByURL(ctx, "https://elsewhere.example")
	require.NoError(t, err)
	assert.False(t, ok)
}

// Тест создания категории: повтор имени возвращает существующую строку
func TestCategoryRepository_CreateReturnsExisting(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	first, err := categories.Create(ctx, "Work", baseTime)
	require.NoError(t, err)

	second, err := categories.Create(ctx, "Work", baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// Тест списка категорий со счётчиками ссылок
func TestCategoryRepository_ListCounts(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	links := NewLinkRepository(db)
	ctx := context.Background()

	work, err := categories.Create(ctx, "Work", baseTime)
	require.NoError(t, err)
	_, err = categories.Create(ctx, "Empty", baseTime)
	require.NoError(t, err)

	mustCreateLink(t, links, "a", "https://a.example", &work.ID, false, baseTime)
	mustCreateLink(t, links, "b", "https://b.example", &work.ID, false, baseTime)

	all, err := categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Отсортировано по имени.
	assert.Equal(t, "Empty", all[0].Name)
	assert.EqualValues(t, 0, all[0].LinkCount)
	assert.Equal(t, "Work", all[1].Name)
	assert.EqualValues(t, 2, all[1].LinkCount)
}

// Тест переименования категории
func TestCategoryRepository_Rename(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	cat, err := categories.Create(ctx, "Old", baseTime)
	require.NoError(t, err)
	_, err = categories.Create(ctx, "Taken", baseTime)
	require.NoError(t, err)

	renamed, err := categories.Rename(ctx, cat.ID, "New")
	require.NoError(t, err)
	assert.Equal(t, "New", renamed.Name)

	_, err = categories.Rename(ctx, cat.ID, "Taken")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = categories.Rename(ctx, 999, "Whatever")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Тест удаления категории: ссылки остаются без категории
func TestCategoryRepository_DeleteDetachesLinks(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	links := NewLinkRepository(db)
	ctx := context.Background()

	cat, err := categories.Create(ctx, "Doomed", baseTime)
	require.NoError(t, err)
	link := mustCreateLink(t, links, "survivor", "https://s.example", &cat.ID, false, baseTime)

	require.NoError(t, categories.Delete(ctx, cat.ID, nil))

	got, err := links.Get(ctx, link.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID, "ссылка пережила удаление категории без категории")

	_, err = categories.Get(ctx, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Тест удаления категории с переносом ссылок
func TestCategoryRepository_DeleteReassignsLinks(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	links := NewLinkRepository(db)
	ctx := context.Background()

	from, err := categories.Create(ctx, "From", baseTime)
	require.NoError(t, err)
	to, err := categories.Create(ctx, "To", baseTime)
	require.NoError(t, err)
	link := mustCreateLink(t, links, "mover", "https://m.example", &from.ID, false, baseTime)

	require.NoError(t, categories.Delete(ctx, from.ID, &to.ID))

	got, err := links.Get(ctx, link.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, to.ID, *got.CategoryID)
	assert.Equal(t, "To", got.CategoryName)
}

// Тест недопустимых целей переноса
func TestCategoryRepository_DeleteBadReassignTarget(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	cat, err := categories.Create(ctx, "Here", baseTime)
	require.NoError(t, err)

	missing := int64(999)
	assert.ErrorIs(t, categories.Delete(ctx, cat.ID, &missing), ErrBadReassignTarget)
	assert.ErrorIs(t, categories.Delete(ctx, cat.ID, &cat.ID), ErrBadReassignTarget)

	// Категория не пострадала от отклонённых попыток.
	_, err = categories.Get(ctx, cat.ID)
	assert.NoError(t, err)
}

// Тест полной очистки базы
func TestMaintenanceRepository_ClearAll(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	links := NewLinkRepository(db)
	maintenance := NewMaintenanceRepository(db)
	ctx := context.Background()

	cat, err := categories.Create(ctx, "Work", baseTime)
	require.NoError(t, err)
	mustCreateLink(t, links, "a", "https://a.example", &cat.ID, false, baseTime)

	require.NoError(t, maintenance.ClearAll(ctx))

	gotLinks, err := links.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, gotLinks)

	gotCats, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, gotCats)

	assert.NoError(t, maintenance.Ping(ctx))
}
