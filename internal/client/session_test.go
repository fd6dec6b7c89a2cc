package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/database"
	"github.com/Totarae/EasyLink/internal/handlers"
	"github.com/Totarae/EasyLink/internal/kvstore"
	"github.com/Totarae/EasyLink/internal/model"
	"github.com/Totarae/EasyLink/internal/repositories"
	"github.com/Totarae/EasyLink/internal/router"
	"github.com/Totarae/EasyLink/internal/service"
	"github.com/Totarae/EasyLink/internal/snapshot"
)

// fakeClock — управляемые часы для проверки окна свежести снимков.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newStack поднимает реальный сервер поверх SQLite в памяти и сессию
// с отдельным "посторонним" клиентом для правок мимо снимка.
func newStack(t *testing.T) (*Session, *Client, *fakeClock) {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.NewSQLite(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, database.Migrate(db, logger))

	linkRepo := repositories.NewLinkRepository(db)
	catRepo := repositories.NewCategoryRepository(db)
	maintRepo := repositories.NewMaintenanceRepository(db)

	handler := handlers.NewHandler(
		service.NewLinkService(linkRepo, catRepo, logger),
		service.NewCategoryService(catRepo, logger),
		service.NewTransferService(linkRepo, catRepo, maintRepo, logger),
		logger,
	)
	ts := httptest.NewServer(router.NewRouter(handler, logger))
	t.Cleanup(ts.Close)

	store, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	api := New(ts.URL, logger)
	return NewSession(api, store, clock, logger), api, clock
}

// Тест окна свежести: правки мимо сессии не видны до истечения снимка
func TestSession_LinksSnapshotWindow(t *testing.T) {
	session, direct, clock := newStack(t)
	ctx := context.Background()

	_, err := direct.CreateLink(ctx, model.CreateLinkRequest{Name: "first", URL: "https://first.example"})
	require.NoError(t, err)

	links, err := session.Links(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)

	// Посторонняя правка: снимок про неё не знает.
	_, err = direct.CreateLink(ctx, model.CreateLinkRequest{Name: "second", URL: "https://second.example"})
	require.NoError(t, err)

	links, err = session.Links(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 1, "свежий снимок отдаётся без похода на сервер")

	clock.Advance(6 * time.Minute)
	links, err = session.Links(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 2, "просроченный снимок перечитывается с сервера")
}

// Тест создания: временный id замещается серверным без дублей
func TestSession_CreateLinkReplacesTempID(t *testing.T) {
	session, _, _ := newStack(t)
	ctx := context.Background()

	created, err := session.CreateLink(ctx, model.CreateLinkRequest{Name: "Google", URL: "https://google.com"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	links, err := session.Links(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1, "ровно одна запись на созданную ссылку")
	assert.Equal(t, created.ID, links[0].ID)
	assert.False(t, snapshot.IsTempID(links[0].ID))
}

// Тест обновления и удаления через сессию
func TestSession_UpdateAndDelete(t *testing.T) {
	session, _, _ := newStack(t)
	ctx := context.Background()

	created, err := session.CreateLink(ctx, model.CreateLinkRequest{Name: "a", URL: "https://a.example"})
	require.NoError(t, err)

	updated, err := session.UpdateLink(ctx, created.ID, map[string]any{"favorite": true})
	require.NoError(t, err)
	assert.True(t, updated.Favorite)

	links, err := session.Links(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.True(t, links[0].Favorite)

	require.NoError(t, session.DeleteLink(ctx, created.ID))

	// Снимок пуст, и сервер подтверждает пустоту.
	links, err = session.RefreshLinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)
}

// Тест категорий: создание, перенос ссылок при удалении
func TestSession_Categories(t *testing.T) {
	session, _, _ := newStack(t)
	ctx := context.Background()

	work, err := session.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	assert.Positive(t, work.ID)

	other, err := session.CreateCategory(ctx, "Other")
	require.NoError(t, err)

	_, err = session.CreateLink(ctx, model.CreateLinkRequest{Name: "doc", URL: "https://doc.example", CategoryID: &work.ID})
	require.NoError(t, err)

	require.NoError(t, session.DeleteCategory(ctx, work.ID, &other.ID))

	cats, err := session.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, other.ID, cats[0].ID)

	// Снимок ссылок был сброшен, перечитываем с новыми привязками.
	links, err := session.Links(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.NotNil(t, links[0].CategoryID)
	assert.Equal(t, other.ID, *links[0].CategoryID)
}

// Тест очистки: снимки сбрасываются вместе с базой
func TestSession_Clear(t *testing.T) {
	session, _, _ := newStack(t)
	ctx := context.Background()

	_, err := session.CreateLink(ctx, model.CreateLinkRequest{Name: "a", URL: "https://a.example"})
	require.NoError(t, err)

	require.NoError(t, session.Clear(ctx))

	links, err := session.Links(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)
}

// Тест выгрузки и импорта через сессию
func TestSession_ExportImport(t *testing.T) {
	session, _, _ := newStack(t)
	ctx := context.Background()

	_, err := session.CreateLink(ctx, model.CreateLinkRequest{Name: "a", URL: "https://a.example"})
	require.NoError(t, err)

	data, err := session.Export(ctx)
	require.NoError(t, err)
	require.Len(t, data.Links, 1)

	require.NoError(t, session.Clear(ctx))

	result, err := session.Import(ctx, model.ImportRequest{
		Links: []model.ImportLink{{Name: "a", URL: "https://a.example"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	links, err := session.Links(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

// Тест ошибки сервера: типизированный APIError с текстом из конверта
func TestClient_APIError(t *testing.T) {
	_, direct, _ := newStack(t)

	_, err := direct.GetLink(context.Background(), 12345)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "link not found", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "404")
}

// flakyBackend отдаёт фиксированный список и отклоняет мутации.
type flakyBackend struct {
	failMutations atomic.Bool
	links         []model.Link
}

func (b *flakyBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodGet {
		_ = json.NewEncoder(w).Encode(model.Envelope{Success: true, Data: b.links})
		return
	}
	if b.failMutations.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(model.Envelope{Success: false, Error: "internal server error"})
		return
	}
	_ = json.NewEncoder(w).Encode(model.Envelope{Success: true})
}

// Тест отказа мутации: снимок восстанавливается с сервера
func TestSession_MutationFailureRecovers(t *testing.T) {
	backend := &flakyBackend{links: []model.Link{{ID: 1, Name: "kept", URL: "https://kept.example"}}}
	backend.failMutations.Store(true)

	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	store, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	session := NewSession(New(ts.URL, zap.NewNop()), store, clock, zap.NewNop())
	ctx := context.Background()

	_, err = session.CreateLink(ctx, model.CreateLinkRequest{Name: "draft", URL: "https://draft.example"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	// Оптимистичная запись вычищена принудительной перезагрузкой.
	links, err := session.Links(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, int64(1), links[0].ID)
}

// Тест недоступного сервера: остаётся последняя известная копия
func TestSession_KeepsLastKnownGoodWhenServerDown(t *testing.T) {
	backend := &flakyBackend{links: []model.Link{
		{ID: 1, Name: "one", URL: "https://one.example"},
		{ID: 2, Name: "two", URL: "https://two.example"},
	}}

	ts := httptest.NewServer(backend)
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	session := NewSession(New(ts.URL, zap.NewNop()), store, clock, zap.NewNop())
	ctx := context.Background()

	links, err := session.Links(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)

	// Сервер упал целиком.
	ts.Close()

	_, err = session.UpdateLink(ctx, 1, map[string]any{"favorite": true})
	require.Error(t, err)

	// Оптимистичная правка и остальной снимок никуда не делись.
	links, err = session.Links(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.True(t, links[0].Favorite)
}
