// Package migrations содержит встроенные SQL-миграции схемы
// для обоих поддерживаемых движков.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
