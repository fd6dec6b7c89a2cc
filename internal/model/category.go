package model

import "time"

// Category представляет категорию ссылок.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	// LinkCount вычисляется при чтении, в базе не хранится.
	LinkCount int64 `json:"linkCount"`
}

// CategoryRequest представляет тело запроса на создание или переименование категории.
type CategoryRequest struct {
	Name string `json:"name"`
}

// DeleteCategoryRequest представляет тело запроса на удаление категории.
// ReassignTo, если задан, указывает категорию, в которую переносятся ссылки.
type DeleteCategoryRequest struct {
	ReassignTo *int64 `json:"reassignTo"`
}
