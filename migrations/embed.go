// Package migrations ships the Postgres schema inside the server binary.
package migrations

import "embed"

// FS holds the numbered NNN_name.sql files, applied in version order.
//
//go:embed *.sql
var FS embed.FS
