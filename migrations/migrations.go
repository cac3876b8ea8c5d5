package migrations

import "embed"

// Files Встроенные миграции БД.
//
//go:embed *.sql
var Files embed.FS
