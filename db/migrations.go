// Package db embeds the SQL migrations so binaries can apply them without a
// checkout of the repository.
package db

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migration is one up script.
type Migration struct {
	Name string
	SQL  string
}

// UpMigrations returns the *.up.sql scripts in lexical order.
func UpMigrations() ([]Migration, error) {
	names, err := fs.Glob(migrations, "migrations/*_*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]Migration, 0, len(names))
	for _, name := range names {
		payload, err := migrations.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: strings.TrimPrefix(name, "migrations/"), SQL: string(payload)})
	}
	return out, nil
}
