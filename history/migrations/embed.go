package migrations

import "embed"

// FS contains embedded SQLite migrations for run history.
//
//go:embed *.sql
var FS embed.FS
