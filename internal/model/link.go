package model

import "time"

// Link представляет сохранённую ссылку.
type Link struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	CategoryID *int64    `json:"categoryId"`
	Favorite   bool      `json:"favorite"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	// CategoryName заполняется при чтении через JOIN, в базе не хранится.
	CategoryName string `json:"categoryName,omitempty"`
}

// CreateLinkRequest представляет тело запроса на создание ссылки.
type CreateLinkRequest struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	CategoryID *int64 `json:"categoryId"`
	Favorite   bool   `json:"favorite"`
}

// UpdateLinkRequest представляет частичное обновление ссылки.
// Поле учитывается, только если соответствующий ключ присутствовал в JSON;
// явный null у categoryId снимает категорию.
type UpdateLinkRequest struct {
	Name        *string
	URL         *string
	CategoryID  *int64
	CategorySet bool
	Favorite    *bool
}

// Empty сообщает, было ли в запросе хоть одно поле.
func (r *UpdateLinkRequest) Empty() bool {
	return r.Name == nil && r.URL == nil && !r.CategorySet && r.Favorite == nil
}
