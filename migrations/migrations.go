// Package migrations embeds the SQL schema applied by cmd/migrate.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

// Migration is one SQL file.
type Migration struct {
	Name string
	SQL  string
}

// Up returns the numbered forward migrations in apply order.
func Up() ([]Migration, error) {
	names, err := fs.Glob(files, "[0-9]*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, n := range names {
		data, err := files.ReadFile(n)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", n, err)
		}
		out = append(out, Migration{Name: n, SQL: string(data)})
	}
	return out, nil
}

// Down returns the script that drops the whole schema.
func Down() (Migration, error) {
	data, err := files.ReadFile("down.sql")
	if err != nil {
		return Migration{}, err
	}
	return Migration{Name: "down.sql", SQL: strings.TrimSpace(string(data))}, nil
}
