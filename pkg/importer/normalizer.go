package importer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/inpx"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/shishobooks/inpxlib/pkg/sortname"
	"github.com/uptrace/bun"
)

// normalizer stores parsed records into the library tables.
type normalizer struct {
	db        bun.IDB
	languages map[string]struct{}

	authors *dictionary
	series  *dictionary
	genres  *dictionary
	bundles *dictionary

	recordsTotal   int
	recordsSkipped int
}

func newNormalizer(db bun.IDB, languages []string) *normalizer {
	allowed := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		allowed[lang] = struct{}{}
	}
	folder := sortname.NewFolder()
	return &normalizer{
		db:        db,
		languages: allowed,
		authors:   newDictionary(folder),
		series:    newDictionary(folder),
		genres:    newDictionary(folder),
		bundles:   newDictionary(nil),
	}
}

func (n *normalizer) HandleRecord(ctx context.Context, rec *inpx.Record) error {
	n.recordsTotal++

	if rec.Deleted {
		n.recordsSkipped++
		return nil
	}
	if _, ok := n.languages[rec.Language]; !ok {
		n.recordsSkipped++
		return nil
	}

	var seriesID *int
	if rec.Series != "" {
		id, err := n.resolveSeries(ctx, rec.Series)
		if err != nil {
			return err
		}
		seriesID = &id
	}

	bundleID, err := n.resolveBundle(ctx, rec.Bundle)
	if err != nil {
		return err
	}

	authorID, err := n.resolveAuthor(ctx, rec.Author)
	if err != nil {
		return err
	}

	if err := n.storeGenres(ctx, rec.LibID, rec.Genres); err != nil {
		return err
	}

	book := &models.Book{
		ID:           rec.LibID,
		AuthorID:     authorID,
		Title:        rec.Title,
		SeriesID:     seriesID,
		SeriesNumber: rec.SeriesNumber,
		Filename:     rec.File,
		FileType:     rec.Ext,
		FileSize:     rec.Size,
		Date:         rec.Date.Format(models.BookDateFormat),
		Language:     rec.Language,
		Keywords:     rec.Keywords,
		BundleID:     bundleID,
	}
	_, err = n.db.NewInsert().
		Model(book).
		On("CONFLICT (id) DO UPDATE").
		Set("author_id = EXCLUDED.author_id").
		Set("title = EXCLUDED.title").
		Set("series_id = EXCLUDED.series_id").
		Set("series_number = EXCLUDED.series_number").
		Set("filename = EXCLUDED.filename").
		Set("file_type = EXCLUDED.file_type").
		Set("file_size = EXCLUDED.file_size").
		Set("date = EXCLUDED.date").
		Set("language = EXCLUDED.language").
		Set("keywords = EXCLUDED.keywords").
		Set("bundle_id = EXCLUDED.bundle_id").
		Exec(ctx)
	return errors.Wrapf(err, "failed to store book %d", rec.LibID)
}

func (n *normalizer) resolveAuthor(ctx context.Context, name string) (int, error) {
	id, created := n.authors.resolve(name)
	if !created {
		return id, nil
	}

	alpha := sortname.FirstLetter(name)
	author := &models.Author{ID: id, Alpha: alpha, Name: name}
	if _, err := n.db.NewInsert().Model(author).Exec(ctx); err != nil {
		return 0, errors.Wrapf(err, "failed to store author %q", name)
	}
	_, err := n.db.NewInsert().
		Model(&models.AuthorAlpha{Alpha: alpha}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return id, errors.WithStack(err)
}

func (n *normalizer) resolveSeries(ctx context.Context, title string) (int, error) {
	id, created := n.series.resolve(title)
	if !created {
		return id, nil
	}

	alpha := sortname.FirstLetter(title)
	series := &models.Series{ID: id, Alpha: alpha, Title: title}
	if _, err := n.db.NewInsert().Model(series).Exec(ctx); err != nil {
		return 0, errors.Wrapf(err, "failed to store series %q", title)
	}
	_, err := n.db.NewInsert().
		Model(&models.SeriesAlpha{Alpha: alpha}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return id, errors.WithStack(err)
}

func (n *normalizer) resolveBundle(ctx context.Context, filename string) (int, error) {
	id, created := n.bundles.resolve(filename)
	if !created {
		return id, nil
	}
	_, err := n.db.NewInsert().
		Model(&models.Bundle{ID: id, Filename: filename}).
		Exec(ctx)
	return id, errors.Wrapf(err, "failed to store bundle %q", filename)
}

func (n *normalizer) storeGenres(ctx context.Context, bookID int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(tags))
	rows := make([]*models.BookGenre, 0, len(tags))
	for _, tag := range tags {
		id, created := n.genres.resolve(tag)
		if created {
			_, err := n.db.NewInsert().
				Model(&models.GenreTag{ID: id, Tag: tag}).
				Exec(ctx)
			if err != nil {
				return errors.Wrapf(err, "failed to store genre %q", tag)
			}
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, &models.BookGenre{GenreID: id, BookID: bookID})
	}

	_, err := n.db.NewInsert().Model(&rows).Exec(ctx)
	return errors.WithStack(err)
}
