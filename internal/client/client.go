// Package client реализует клиентскую сторону: HTTP-доступ к API,
// локальную сессию со снимками-кешами и пользовательские настройки.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/model"
)

// APIError — ошибка, возвращённая сервером в конверте ответа.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client — HTTP-клиент API. Все ответы приходят в едином конверте
// {success, data|error|message}; data декодируется в конкретный тип.
type Client struct {
	base   string
	http   *http.Client
	logger *zap.Logger
}

// New создаёт клиент для сервера по базовому адресу.
func New(base string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// ListLinks запрашивает список ссылок с фильтрами.
func (c *Client) ListLinks(ctx context.Context, f model.LinkFilters) ([]model.Link, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.CategoryID != nil {
		q.Set("categoryId", strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.Favorite != nil && *f.Favorite {
		q.Set("favorite", "true")
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	if f.Order != "" {
		q.Set("order", f.Order)
	}
	if f.Paginated() {
		q.Set("page", strconv.Itoa(f.Page))
		q.Set("perPage", strconv.Itoa(f.PerPage))
	}

	path := "/api/links"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var links []model.Link
	if _, err := c.do(ctx, http.MethodGet, path, nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// GetLink запрашивает одну ссылку.
func (c *Client) GetLink(ctx context.Context, id int64) (*model.Link, error) {
	var link model.Link
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/links/%d", id), nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// CreateLink создаёт ссылку.
func (c *Client) CreateLink(ctx context.Context, req model.CreateLinkRequest) (*model.Link, error) {
	var link model.Link
	if _, err := c.do(ctx, http.MethodPost, "/api/links", req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// UpdateLink частично обновляет ссылку. В fields попадают только
// изменяемые поля; явный nil у categoryId снимает категорию.
func (c *Client) UpdateLink(ctx context.Context, id int64, fields map[string]any) (*model.Link, error) {
	var link model.Link
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/links/%d", id), fields, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// DeleteLink удаляет ссылку.
func (c *Client) DeleteLink(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/links/%d", id), nil, nil)
	return err
}

// ListCategories запрашивает все категории со счётчиками ссылок.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if _, err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory создаёт категорию; при совпадении имени сервер
// возвращает существующую.
func (c *Client) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	req := model.CategoryRequest{Name: name}
	if _, err := c.do(ctx, http.MethodPost, "/api/categories", req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// RenameCategory переименовывает категорию.
func (c *Client) RenameCategory(ctx context.Context, id int64, name string) (*model.Category, error) {
	var category model.Category
	req := model.CategoryRequest{Name: name}
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory удаляет категорию; reassignTo задаёт категорию,
// в которую переносятся её ссылки, иначе они остаются без категории.
func (c *Client) DeleteCategory(ctx context.Context, id int64, reassignTo *int64) error {
	var body any
	if reassignTo != nil {
		body = model.DeleteCategoryRequest{ReassignTo: reassignTo}
	}
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), body, nil)
	return err
}

// Export выгружает всю базу.
func (c *Client) Export(ctx context.Context) (*model.ExportData, error) {
	var data model.ExportData
	if _, err := c.do(ctx, http.MethodGet, "/api/export", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Import загружает данные на сервер и возвращает итоги.
func (c *Client) Import(ctx context.Context, req model.ImportRequest) (*model.ImportResult, error) {
	var result model.ImportResult
	if _, err := c.do(ctx, http.MethodPost, "/api/import", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Clear стирает все данные на сервере.
func (c *Client) Clear(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/clear", nil, nil)
	return err
}

// Health проверяет живость сервера и его базы.
func (c *Client) Health(ctx context.Context) (*model.HealthStatus, error) {
	var status model.HealthStatus
	if _, err := c.do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// do выполняет запрос, разбирает конверт и декодирует data в out.
// Возвращает message конверта для операций без данных.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (string, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var env model.RawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return env.Message, nil
}
