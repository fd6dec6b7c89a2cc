// Package snapshot реализует клиентский кеш коллекций с окном свежести:
// полный снимок коллекции хранится одним блобом {data, timestamp} и при
// чтении старше окна считается отсутствующим. Снимок — производная,
// одноразовая копия: его можно стереть в любой момент без потери данных,
// источником истины всегда остаётся сервер.
//
// Кеш поддерживает оптимистичные мутации: преобразование применяется к
// снимку и возвращается синхронно, до ответа сервера. Каждая локальная
// запись получает корреляционный токен; Reconcile, начатый до более
// новой записи, распознаёт это по токену и выбрасывает устаревший ответ
// сервера вместо того, чтобы затереть им свежую локальную правку.
package snapshot

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/kvstore"
)

// DefaultMaxAge — окно свежести снимка.
const DefaultMaxAge = 5 * time.Minute

// Clock отдаёт текущее время. Внедряется, чтобы проверки свежести
// тестировались без реальных таймеров.
type Clock interface {
	Now() time.Time
}

// SystemClock — часы на time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Token — корреляционный токен локальной записи снимка.
type Token string

// blob — сериализованная форма снимка. Timestamp в миллисекундах Unix,
// как в браузерном localStorage-клиенте.
type blob struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Collection управляет снимком одной коллекции в kvstore.
type Collection[T any] struct {
	store  *kvstore.Store
	key    string
	clock  Clock
	maxAge time.Duration
	logger *zap.Logger

	mu        sync.Mutex
	lastWrite Token
}

// NewCollection создаёт снимок-кеш коллекции под ключом key.
func NewCollection[T any](store *kvstore.Store, key string, clock Clock, maxAge time.Duration, logger *zap.Logger) *Collection[T] {
	if clock == nil {
		clock = SystemClock{}
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[T]{store: store, key: key, clock: clock, maxAge: maxAge, logger: logger}
}

// Read возвращает снимок, если его возраст не превышает окно свежести,
// иначе пустую последовательность. Отсутствие или порча кеша — обычное
// состояние, не ошибка.
func (c *Collection[T]) Read() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readLocked()
}

// Write перезаписывает снимок и сбрасывает его возраст.
func (c *Collection[T]) Write(items []T) Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(items)
}

// ApplyOptimistic применяет чистое преобразование к текущему снимку,
// немедленно сохраняет результат и возвращает его вместе с токеном —
// до какого-либо сетевого вызова.
func (c *Collection[T]) ApplyOptimistic(transform func([]T) []T) ([]T, Token) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := transform(c.readLocked())
	token := c.writeLocked(next)
	return next, token
}

// Reconcile вызывает fetch и при успехе замещает снимок серверным
// состоянием — если только токен не устарел: более новая локальная
// запись означает, что этот ответ сервера уже неактуален, и он
// выбрасывается. При ошибке fetch снимок не трогается, решение об
// откате остаётся за вызывающим.
func (c *Collection[T]) Reconcile(ctx context.Context, token Token, fetch func(context.Context) ([]T, error)) ([]T, error) {
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastWrite != token {
		c.logger.Debug("stale reconcile discarded", zap.String("collection", c.key))
		return c.readLocked(), nil
	}
	c.writeLocked(items)
	return items, nil
}

// Refresh принудительно замещает снимок серверным состоянием.
func (c *Collection[T]) Refresh(ctx context.Context, fetch func(context.Context) ([]T, error)) ([]T, error) {
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLocked(items)
	return items, nil
}

// Invalidate стирает снимок. Начатые ранее Reconcile после этого устаревают.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(c.key); err != nil {
		c.logger.Warn("failed to drop snapshot", zap.String("collection", c.key), zap.Error(err))
	}
	c.lastWrite = Token(uuid.NewString())
}

func (c *Collection[T]) readLocked() []T {
	var b blob
	ok, err := c.store.Get(c.key, &b)
	if err != nil || !ok {
		return []T{}
	}

	age := c.clock.Now().UnixMilli() - b.Timestamp
	if age > c.maxAge.Milliseconds() {
		// Просрочка проверяется при чтении; сами байты не вычищаются.
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(b.Data, &items); err != nil {
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

func (c *Collection[T]) writeLocked(items []T) Token {
	raw, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn("failed to encode snapshot", zap.String("collection", c.key), zap.Error(err))
		return c.lastWrite
	}
	b := blob{Data: raw, Timestamp: c.clock.Now().UnixMilli()}
	if err := c.store.Set(c.key, b); err != nil {
		// Кеш — вспомогательная копия: неудачная запись не ломает поток.
		c.logger.Warn("failed to persist snapshot", zap.String("collection", c.key), zap.Error(err))
	}

	token := Token(uuid.NewString())
	c.lastWrite = token
	return token
}
