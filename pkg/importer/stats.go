package importer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/uptrace/bun"
)

// snapshot copies the book ids and author names of the current library into
// temporary tables so that the import can be compared against them.
func snapshot(ctx context.Context, tx bun.Tx) error {
	if err := dropSnapshot(ctx, tx); err != nil {
		return err
	}
	stmts := []string{
		"CREATE TEMP TABLE old_book_ids AS SELECT id FROM books",
		"CREATE TEMP TABLE old_author_names AS SELECT name FROM authors",
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to snapshot library")
		}
	}
	return nil
}

func dropSnapshot(ctx context.Context, tx bun.Tx) error {
	stmts := []string{
		"DROP TABLE IF EXISTS temp.old_book_ids",
		"DROP TABLE IF EXISTS temp.old_author_names",
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func collectStats(ctx context.Context, tx bun.Tx, run *models.ImportRun) error {
	counts := []struct {
		dest  *int
		query string
	}{
		{&run.BooksTotal, "SELECT COUNT(*) FROM books"},
		{&run.BooksNew, "SELECT COUNT(*) FROM books WHERE id NOT IN (SELECT id FROM temp.old_book_ids)"},
		{&run.BooksDeleted, "SELECT COUNT(*) FROM temp.old_book_ids WHERE id NOT IN (SELECT id FROM books)"},
		{&run.AuthorsTotal, "SELECT COUNT(*) FROM authors"},
		{&run.AuthorsNew, "SELECT COUNT(*) FROM authors WHERE name NOT IN (SELECT name FROM temp.old_author_names)"},
		{&run.AuthorsDeleted, "SELECT COUNT(*) FROM temp.old_author_names WHERE name NOT IN (SELECT name FROM authors)"},
	}
	for _, c := range counts {
		if err := tx.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return errors.Wrap(err, "failed to collect import statistics")
		}
	}
	return nil
}
