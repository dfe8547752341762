// Package migrations carries the embedded SQL schema applied by goose at
// process start.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
