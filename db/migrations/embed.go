// Package migrations embeds the goose SQL scripts, one directory per dialect.
package migrations

import "embed"

//go:embed sql
var FS embed.FS
