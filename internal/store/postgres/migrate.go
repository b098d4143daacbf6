package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

// Migrate applies the "-- +goose Up" section of every .sql file in fsys, in name order.
// Statements are expected to be idempotent.
func Migrate(ctx context.Context, db bun.IDB, fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		upSQL, err := extractGooseUp(string(b))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for _, stmt := range splitSQLStatements(upSQL) {
			if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
	}

	return names, nil
}

func extractGooseUp(sql string) (string, error) {
	upMarker := "-- +goose Up"
	downMarker := "-- +goose Down"

	upIdx := strings.Index(sql, upMarker)
	if upIdx < 0 {
		return "", fmt.Errorf("missing goose up marker")
	}
	afterUp := strings.TrimLeft(sql[upIdx+len(upMarker):], "\r\n")

	downIdx := strings.Index(afterUp, downMarker)
	if downIdx < 0 {
		return strings.TrimSpace(afterUp), nil
	}
	return strings.TrimSpace(afterUp[:downIdx]), nil
}

func splitSQLStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
