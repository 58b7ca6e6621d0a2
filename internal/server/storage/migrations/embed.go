// Package migrations содержит встроенные SQL-миграции для postgres и sqlite.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
