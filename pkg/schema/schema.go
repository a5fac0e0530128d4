// Package schema manages the library tables that are rebuilt from scratch on
// every import, along with the schema version marker used to detect stale
// databases.
package schema

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Version must be bumped whenever a library table changes shape. Databases
// carrying a different version need to be re-imported.
const Version = 3

type table struct {
	name    string
	columns string
	indexes []string
}

// Favorites, library metadata and import history are durable and live in
// migrations instead.
var libraryTables = []table{
	{
		name: "books",
		columns: `
			id INTEGER PRIMARY KEY,
			author_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			series_id INTEGER,
			series_number INTEGER NOT NULL DEFAULT 0,
			filename TEXT NOT NULL,
			file_type TEXT NOT NULL,
			file_size INTEGER NOT NULL DEFAULT 0,
			date TEXT NOT NULL,
			language TEXT NOT NULL,
			keywords TEXT NOT NULL,
			bundle_id INTEGER NOT NULL`,
		indexes: []string{
			`CREATE INDEX IF NOT EXISTS ix_books_author_id ON books (author_id)`,
			`CREATE INDEX IF NOT EXISTS ix_books_series_id ON books (series_id)`,
			`CREATE INDEX IF NOT EXISTS ix_books_bundle_id ON books (bundle_id)`,
		},
	},
	{
		name: "authors",
		columns: `
			id INTEGER PRIMARY KEY,
			alpha TEXT NOT NULL,
			name TEXT NOT NULL`,
		indexes: []string{
			`CREATE INDEX IF NOT EXISTS ix_authors_alpha ON authors (alpha)`,
			`CREATE INDEX IF NOT EXISTS ix_authors_name ON authors (name)`,
		},
	},
	{
		name:    "author_alphas",
		columns: `alpha TEXT PRIMARY KEY`,
	},
	{
		name: "series",
		columns: `
			id INTEGER PRIMARY KEY,
			alpha TEXT NOT NULL,
			title TEXT NOT NULL`,
		indexes: []string{
			`CREATE INDEX IF NOT EXISTS ix_series_alpha ON series (alpha)`,
			`CREATE INDEX IF NOT EXISTS ix_series_title ON series (title)`,
		},
	},
	{
		name:    "series_alphas",
		columns: `alpha TEXT PRIMARY KEY`,
	},
	{
		name: "genre_tags",
		columns: `
			id INTEGER PRIMARY KEY,
			tag TEXT NOT NULL`,
	},
	{
		// No primary key on purpose, duplicate associations are tolerated.
		name: "book_genres",
		columns: `
			genre_id INTEGER NOT NULL,
			book_id INTEGER NOT NULL`,
		indexes: []string{
			`CREATE INDEX IF NOT EXISTS ix_book_genres_genre_id ON book_genres (genre_id)`,
			`CREATE INDEX IF NOT EXISTS ix_book_genres_book_id ON book_genres (book_id)`,
		},
	},
	{
		name: "genre_names",
		columns: `
			tag TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL`,
	},
	{
		name: "bundles",
		columns: `
			id INTEGER PRIMARY KEY,
			filename TEXT NOT NULL`,
	},
}

// TableNames returns the names of all library tables in creation order.
func TableNames() []string {
	names := make([]string, 0, len(libraryTables))
	for _, t := range libraryTables {
		names = append(names, t.name)
	}
	return names
}

// InitTables creates any library tables that don't exist yet. Existing tables
// and their contents are left alone.
func InitTables(ctx context.Context, db bun.IDB) error {
	for _, t := range libraryTables {
		_, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS "+t.name+" ("+t.columns+")")
		if err != nil {
			return errors.Wrapf(err, "failed to create table %s", t.name)
		}
		for _, ix := range t.indexes {
			_, err := db.ExecContext(ctx, ix)
			if err != nil {
				return errors.Wrapf(err, "failed to create index on %s", t.name)
			}
		}
	}
	return nil
}

// ResetTables drops and recreates every library table. Durable tables are not
// touched.
func ResetTables(ctx context.Context, db bun.IDB) error {
	for _, t := range libraryTables {
		_, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+t.name)
		if err != nil {
			return errors.Wrapf(err, "failed to drop table %s", t.name)
		}
	}
	return InitTables(ctx, db)
}
