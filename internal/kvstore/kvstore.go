// Package kvstore реализует долговечное клиентское key-value хранилище:
// JSON-файл, целиком загружаемый при открытии и атомарно переписываемый
// при каждой мутации. Это аналог localStorage браузерного клиента —
// данные в нём вспомогательные и полностью восстановимы с сервера.
package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store provides a thread-safe persistent key-value storage
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]json.RawMessage
}

// Open загружает хранилище из файла. Отсутствующий или повреждённый
// файл не считается ошибкой: хранилище начинается пустым.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	s := &Store{path: path, data: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// Битый файл — начинаем с чистого листа, сервер остаётся источником истины.
		s.data = make(map[string]json.RawMessage)
	}
	return s, nil
}

// Get декодирует значение по ключу в v. Возвращает false, если ключа нет.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode value for %q: %w", key, err)
	}
	return true, nil
}

// Set сохраняет значение по ключу и переписывает файл.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.flush()
}

// Delete удаляет ключ и переписывает файл.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// flush атомарно записывает файл: сначала во временный, затем rename.
// Вызывается под взятой блокировкой.
func (s *Store) flush() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
