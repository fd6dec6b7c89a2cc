package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Totarae/EasyLink/internal/kvstore"
)

// fakeClock — управляемые часы для проверки окна свежести.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type note struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

func newTestCollection(t *testing.T) (*Collection[note], *fakeClock, *kvstore.Store) {
	t.Helper()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewCollection[note](store, "notes", clock, DefaultMaxAge, nil), clock, store
}

// Тест чтения свежего и просроченного снимка
func TestCollection_FreshnessWindow(t *testing.T) {
	c, clock, _ := newTestCollection(t)

	c.Write([]note{{ID: 1, Text: "first"}})

	clock.Advance(5 * time.Minute)
	assert.Len(t, c.Read(), 1, "снимок ровно на границе окна ещё свежий")

	clock.Advance(time.Minute)
	assert.Empty(t, c.Read(), "через шесть минут снимок считается отсутствующим")
}

// Тест чтения пустого хранилища
func TestCollection_ReadEmpty(t *testing.T) {
	c, _, _ := newTestCollection(t)
	items := c.Read()
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

// Тест чтения битого снимка
func TestCollection_ReadCorrupt(t *testing.T) {
	c, _, store := newTestCollection(t)

	require.NoError(t, store.Set("notes", blob{Data: []byte(`{"oops"`), Timestamp: c.clock.Now().UnixMilli()}))
	assert.Empty(t, c.Read())
}

// Тест оптимистичного добавления и замены временного id серверным
func TestCollection_OptimisticTempIDReplaced(t *testing.T) {
	c, clock, _ := newTestCollection(t)

	c.Write([]note{{ID: 10, Text: "existing"}})

	tempID := TempID(clock)
	require.True(t, IsTempID(tempID))

	items, _ := c.ApplyOptimistic(func(items []note) []note {
		return append([]note{{ID: tempID, Text: "draft"}}, items...)
	})
	require.Len(t, items, 2)
	assert.Equal(t, tempID, items[0].ID)

	// Сервер ответил: временная запись замещается, не дублируется.
	items, _ = c.ApplyOptimistic(func(items []note) []note {
		for i := range items {
			if items[i].ID == tempID {
				items[i] = note{ID: 42, Text: "draft"}
			}
		}
		return items
	})
	require.Len(t, items, 2)
	assert.Equal(t, int64(42), items[0].ID)

	for _, it := range items {
		assert.False(t, IsTempID(it.ID))
	}
}

// Тест сверки: серверное состояние замещает снимок
func TestCollection_ReconcileApplies(t *testing.T) {
	c, _, _ := newTestCollection(t)

	_, token := c.ApplyOptimistic(func(items []note) []note {
		return append(items, note{ID: -1, Text: "draft"})
	})

	server := []note{{ID: 7, Text: "canonical"}}
	items, err := c.Reconcile(context.Background(), token, func(context.Context) ([]note, error) {
		return server, nil
	})
	require.NoError(t, err)
	assert.Equal(t, server, items)
	assert.Equal(t, server, c.Read())
}

// Тест сверки, обогнанной более новой локальной записью
func TestCollection_ReconcileStaleDiscarded(t *testing.T) {
	c, _, _ := newTestCollection(t)

	_, oldToken := c.ApplyOptimistic(func(items []note) []note {
		return append(items, note{ID: 1, Text: "first"})
	})

	// Пока первый запрос был в полёте, пользователь успел отредактировать ещё раз.
	newer, _ := c.ApplyOptimistic(func(items []note) []note {
		return append(items, note{ID: 2, Text: "second"})
	})

	items, err := c.Reconcile(context.Background(), oldToken, func(context.Context) ([]note, error) {
		return []note{{ID: 1, Text: "first"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, newer, items, "устаревший ответ сервера не затирает свежую правку")
	assert.Equal(t, newer, c.Read())
}

// Тест сверки при недоступном сервере
func TestCollection_ReconcileFetchError(t *testing.T) {
	c, _, _ := newTestCollection(t)

	optimistic, token := c.ApplyOptimistic(func(items []note) []note {
		return append(items, note{ID: 1, Text: "draft"})
	})

	fetchErr := errors.New("server down")
	_, err := c.Reconcile(context.Background(), token, func(context.Context) ([]note, error) {
		return nil, fetchErr
	})
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, optimistic, c.Read(), "оптимистичная копия не откатывается при сбое сверки")
}

// Тест принудительной перезагрузки
func TestCollection_Refresh(t *testing.T) {
	c, _, _ := newTestCollection(t)

	c.Write([]note{{ID: 1, Text: "old"}})

	server := []note{{ID: 2, Text: "new"}}
	items, err := c.Refresh(context.Background(), func(context.Context) ([]note, error) {
		return server, nil
	})
	require.NoError(t, err)
	assert.Equal(t, server, items)
	assert.Equal(t, server, c.Read())
}

// Тест сброса снимка
func TestCollection_Invalidate(t *testing.T) {
	c, _, _ := newTestCollection(t)

	_, token := c.ApplyOptimistic(func(items []note) []note {
		return append(items, note{ID: 1, Text: "draft"})
	})

	c.Invalidate()
	assert.Empty(t, c.Read())

	// Сверка, начатая до сброса, тоже устарела.
	items, err := c.Reconcile(context.Background(), token, func(context.Context) ([]note, error) {
		return []note{{ID: 1, Text: "draft"}}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, items)
}

// Тест перезаписи: возраст снимка отсчитывается заново
func TestCollection_WriteResetsAge(t *testing.T) {
	c, clock, _ := newTestCollection(t)

	c.Write([]note{{ID: 1}})
	clock.Advance(4 * time.Minute)
	c.Write([]note{{ID: 1}, {ID: 2}})
	clock.Advance(4 * time.Minute)

	assert.Len(t, c.Read(), 2)
}

// Тест временных идентификаторов
func TestTempID(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	id := TempID(clock)
	assert.Negative(t, id)
	assert.True(t, IsTempID(id))
	assert.False(t, IsTempID(1))
	assert.Equal(t, -clock.now.UnixMilli(), id)
}
