// Package util содержит мелкие проверки, общие для сервера и клиента.
package util

import (
	"net/url"
	"regexp"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsAbsoluteURL проверяет, что строка разбирается как абсолютный URL
// со схемой и хостом.
func IsAbsoluteURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

// IsHexColor проверяет цвет формата #RRGGBB.
func IsHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}
