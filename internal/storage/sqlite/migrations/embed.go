// Package migrations contains embedded SQLite migrations for the
// canonical people store.
package migrations

import "embed"

// FS contains the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
