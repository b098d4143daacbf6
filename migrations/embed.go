// Package migrations holds the SQL schema in goose format.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
