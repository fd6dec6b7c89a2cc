package client

import (
	"fmt"

	"github.com/Totarae/EasyLink/internal/kvstore"
	"github.com/Totarae/EasyLink/internal/util"
)

const prefsKey = "easylink_prefs"

// Допустимые темы оформления.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Preferences — пользовательские настройки клиента.
type Preferences struct {
	Theme        string `json:"theme"`
	PrimaryColor string `json:"primaryColor"`
	AccentColor  string `json:"accentColor"`
}

// DefaultPreferences возвращает настройки по умолчанию.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:        ThemeSystem,
		PrimaryColor: "#3b82f6",
		AccentColor:  "#f59e0b",
	}
}

// PrefStore хранит настройки в локальном key-value хранилище.
type PrefStore struct {
	store *kvstore.Store
}

// NewPrefStore создаёт хранилище настроек.
func NewPrefStore(store *kvstore.Store) *PrefStore {
	return &PrefStore{store: store}
}

// Load читает настройки; отсутствующие поля добиваются значениями
// по умолчанию, битая запись целиком заменяется ими.
func (p *PrefStore) Load() Preferences {
	prefs := DefaultPreferences()

	var stored Preferences
	ok, err := p.store.Get(prefsKey, &stored)
	if err != nil || !ok {
		return prefs
	}

	if stored.Theme != "" {
		prefs.Theme = stored.Theme
	}
	if stored.PrimaryColor != "" {
		prefs.PrimaryColor = stored.PrimaryColor
	}
	if stored.AccentColor != "" {
		prefs.AccentColor = stored.AccentColor
	}
	return prefs
}

// Save проверяет и сохраняет настройки.
func (p *PrefStore) Save(prefs Preferences) error {
	switch prefs.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("unknown theme %q", prefs.Theme)
	}
	if !util.IsHexColor(prefs.PrimaryColor) {
		return fmt.Errorf("invalid primary color %q", prefs.PrimaryColor)
	}
	if !util.IsHexColor(prefs.AccentColor) {
		return fmt.Errorf("invalid accent color %q", prefs.AccentColor)
	}
	return p.store.Set(prefsKey, prefs)
}
