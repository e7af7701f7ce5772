// Package migrations embeds the goose SQL migrations for the candidates schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
