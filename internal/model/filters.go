package model

// Допустимые ключи сортировки списка ссылок.
const (
	SortCreatedAt = "createdAt"
	SortName      = "name"
	SortFavorite  = "favorite"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// LinkFilters описывает параметры выборки списка ссылок.
type LinkFilters struct {
	Search     string
	CategoryID *int64
	Favorite   *bool
	Sort       string
	Order      string
	Page       int
	PerPage    int
}

// Paginated сообщает, запрошена ли постраничная выборка.
// Пагинация применяется только при обоих заданных параметрах.
func (f *LinkFilters) Paginated() bool {
	return f.Page > 0 && f.PerPage > 0
}
