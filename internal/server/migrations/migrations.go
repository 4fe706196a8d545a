// Package migrations embeds the goose schema migrations for every supported
// SQL dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the migrations for PostgreSQL rooted at ".".
func Postgres() fs.FS { return sub("postgres") }

// SQLite returns the migrations for SQLite rooted at ".".
func SQLite() fs.FS { return sub("sqlite") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return f
}
