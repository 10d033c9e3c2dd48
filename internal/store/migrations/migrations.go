// Package migrations embeds the goose SQL migrations owning the sqlite
// schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
