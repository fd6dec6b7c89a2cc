package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Totarae/EasyLink/internal/database"
	"github.com/Totarae/EasyLink/internal/model"
)

// LinkRepositoryInterface определяет методы репозитория ссылок.
type LinkRepositoryInterface interface {
	List(ctx context.Context, filters *model.LinkFilters) ([]*model.Link, error)
	Get(ctx context.Context, id int64) (*model.Link, error)
	Create(ctx context.Context, link *model.Link) error
	Update(ctx context.Context, id int64, req *model.UpdateLinkRequest, now time.Time) error
	Delete(ctx context.Context, id int64) error
	ExistsByURL(ctx context.Context, url string) (bool, error)
}

// LinkRepository реализует LinkRepositoryInterface поверх database.DB.
type LinkRepository struct {
	DB database.DB
}

// NewLinkRepository создаёт новый экземпляр LinkRepository.
func NewLinkRepository(db database.DB) *LinkRepository {
	return &LinkRepository{DB: db}
}

const linkColumns = `l.id, l.name, l.url, l.category_id, l.favorite, l.created_at, l.updated_at, c.name`

// List возвращает ссылки с учётом фильтров, сортировки и пагинации.
func (r *LinkRepository) List(ctx context.Context, filters *model.LinkFilters) ([]*model.Link, error) {
	if filters == nil {
		filters = &model.LinkFilters{}
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + linkColumns + `
	          FROM links l
	          LEFT JOIN categories c ON l.category_id = c.id
	          WHERE 1=1`)
	args := make([]any, 0, 6)

	if filters.Search != "" {
		sb.WriteString(` AND (l.name LIKE ? OR l.url LIKE ?)`)
		term := "%" + filters.Search + "%"
		args = append(args, term, term)
	}
	if filters.CategoryID != nil {
		sb.WriteString(` AND l.category_id = ?`)
		args = append(args, *filters.CategoryID)
	}
	if filters.Favorite != nil {
		sb.WriteString(` AND l.favorite = ?`)
		args = append(args, *filters.Favorite)
	}

	dir := "DESC"
	if filters.Order == model.OrderAsc {
		dir = "ASC"
	}
	switch filters.Sort {
	case model.SortFavorite:
		// Избранные всегда сверху, внутри — новые вперёд.
		// Запрошенное направление здесь не применяется.
		sb.WriteString(` ORDER BY l.favorite DESC, l.created_at DESC`)
	case model.SortName:
		sb.WriteString(` ORDER BY l.name ` + dir)
	default:
		sb.WriteString(` ORDER BY l.created_at ` + dir)
	}

	if filters.Paginated() {
		sb.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, filters.PerPage, (filters.Page-1)*filters.PerPage)
	}

	rows, err := r.DB.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	results := make([]*model.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		results = append(results, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read link rows: %w", err)
	}

	return results, nil
}

// Get извлекает одну ссылку вместе с именем её категории.
func (r *LinkRepository) Get(ctx context.Context, id int64) (*model.Link, error) {
	query := `SELECT ` + linkColumns + `
	          FROM links l
	          LEFT JOIN categories c ON l.category_id = c.id
	          WHERE l.id = ?`

	link, err := scanLink(r.DB.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

// Create сохраняет ссылку и заполняет её серверный идентификатор.
func (r *LinkRepository) Create(ctx context.Context, link *model.Link) error {
	query := `INSERT INTO links (name, url, category_id, favorite, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)
	          RETURNING id`

	err := r.DB.QueryRow(ctx, query,
		link.Name, link.URL, link.CategoryID, link.Favorite, link.CreatedAt, link.UpdatedAt,
	).Scan(&link.ID)
	if err != nil {
		return fmt.Errorf("failed to insert link: %w", err)
	}
	return nil
}

// Update применяет частичное обновление: изменяются только поля,
// присутствовавшие в запросе.
func (r *LinkRepository) Update(ctx context.Context, id int64, req *model.UpdateLinkRequest, now time.Time) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if req.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *req.Name)
	}
	if req.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, *req.URL)
	}
	if req.CategorySet {
		sets = append(sets, "category_id = ?")
		args = append(args, req.CategoryID)
	}
	if req.Favorite != nil {
		sets = append(sets, "favorite = ?")
		args = append(args, *req.Favorite)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)

	affected, err := r.DB.Exec(ctx, `UPDATE links SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет ссылку.
func (r *LinkRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.DB.Exec(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExistsByURL сообщает, есть ли уже ссылка с точно таким URL.
func (r *LinkRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var one int
	err := r.DB.QueryRow(ctx, `SELECT 1 FROM links WHERE url = ? LIMIT 1`, url).Scan(&one)
	if errors.Is(err, database.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check link url: %w", err)
	}
	return true, nil
}

func scanLink(row database.Row) (*model.Link, error) {
	link := &model.Link{}
	var categoryName *string
	err := row.Scan(
		&link.ID, &link.Name, &link.URL, &link.CategoryID, &link.Favorite,
		&link.CreatedAt, &link.UpdatedAt, &categoryName,
	)
	if err != nil {
		return nil, err
	}
	if categoryName != nil {
		link.CategoryName = *categoryName
	}
	return link, nil
}
