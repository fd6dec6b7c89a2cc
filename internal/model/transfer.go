package model

import "time"

// ExportVersion — версия формата выгрузки.
const ExportVersion = "1.0"

// ExportData представляет полную выгрузку базы.
type ExportData struct {
	Version    string     `json:"version"`
	ExportedAt time.Time  `json:"exportedAt"`
	Categories []Category `json:"categories"`
	Links      []Link     `json:"links"`
}

// ImportCategory — категория во входном файле импорта.
// ID нужен только для сопоставления со ссылками, в базу не переносится.
type ImportCategory struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// ImportLink — ссылка во входном файле импорта.
type ImportLink struct {
	ID         int64  `json:"id,omitempty"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	CategoryID *int64 `json:"categoryId"`
	Favorite   bool   `json:"favorite"`
}

// ImportRequest представляет тело запроса на импорт.
type ImportRequest struct {
	Categories []ImportCategory `json:"categories"`
	Links      []ImportLink     `json:"links"`
}

// ImportResult — итоги импорта.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// HealthStatus — ответ проверки живости.
type HealthStatus struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
