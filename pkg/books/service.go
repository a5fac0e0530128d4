package books

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/errcodes"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/shishobooks/inpxlib/pkg/pagination"
	"github.com/shishobooks/inpxlib/pkg/sortname"
	"github.com/uptrace/bun"
)

const (
	FavoritesAuthors = "authors"
	FavoritesSeries  = "series"
	FavoritesAll     = "all"
)

type ListBooksOptions struct {
	Limit    *int
	Offset   *int
	AuthorID *int
	SeriesID *int
	GenreID  *int
	// Favorites is one of FavoritesAuthors, FavoritesSeries or FavoritesAll.
	Favorites *string
	Language  *string
	// DateFrom keeps books added on or after the date (YYYY-MM-DD).
	DateFrom *string
	// Search matches the title, author name or series title, ignoring case.
	Search *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveBook(ctx context.Context, id int64) (*models.Book, error) {
	book := &models.Book{}
	err := svc.db.NewSelect().
		Model(book).
		Relation("Author").
		Relation("Series").
		Relation("Bundle").
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}
	return book, nil
}

// ListBookGenres returns the distinct genre tags of a book.
func (svc *Service) ListBookGenres(ctx context.Context, id int64) ([]string, error) {
	tags := []string{}
	err := svc.db.NewSelect().
		Model((*models.GenreTag)(nil)).
		Column("gt.tag").
		Where("gt.id IN (SELECT bg.genre_id FROM book_genres AS bg WHERE bg.book_id = ?)", id).
		Order("gt.tag ASC").
		Scan(ctx, &tags)
	return tags, errors.WithStack(err)
}

// ListBooks returns matching books ordered by author, series, series number,
// title and date, along with the number of matches before pagination.
func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}

	q := svc.db.NewSelect().
		Model(&books).
		Relation("Author").
		Relation("Series").
		OrderExpr("author.name ASC").
		OrderExpr("COALESCE(series.title, '') ASC").
		OrderExpr("b.series_number ASC").
		OrderExpr("b.title ASC").
		OrderExpr("b.date ASC")

	if opts.AuthorID != nil {
		q = q.Where("b.author_id = ?", *opts.AuthorID)
	}
	if opts.SeriesID != nil {
		q = q.Where("b.series_id = ?", *opts.SeriesID)
	}
	if opts.GenreID != nil {
		q = q.Where("b.id IN (SELECT bg.book_id FROM book_genres AS bg WHERE bg.genre_id = ?)", *opts.GenreID)
	}
	if opts.Language != nil {
		q = q.Where("b.language = ?", *opts.Language)
	}
	if opts.DateFrom != nil {
		q = q.Where("b.date >= ?", *opts.DateFrom)
	}
	if opts.Favorites != nil {
		switch *opts.Favorites {
		case FavoritesAuthors:
			q = q.Where("author.name IN (SELECT name FROM favorite_authors)")
		case FavoritesSeries:
			q = q.Where("series.title IN (SELECT title FROM favorite_series)")
		case FavoritesAll:
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					WhereOr("author.name IN (SELECT name FROM favorite_authors)").
					WhereOr("series.title IN (SELECT title FROM favorite_series)")
			})
		}
	}

	if opts.Search == nil {
		if opts.Limit != nil {
			q = q.Limit(*opts.Limit)
		}
		if opts.Offset != nil {
			q = q.Offset(*opts.Offset)
		}
		total, err := q.ScanAndCount(ctx)
		return books, total, errors.WithStack(err)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, 0, errors.WithStack(err)
	}

	// Matching happens here since SQLite's LIKE only folds ASCII.
	folder := sortname.NewFolder()
	filtered := books[:0]
	for _, b := range books {
		if folder.Contains(b.Title, *opts.Search) ||
			folder.Contains(b.AuthorName(), *opts.Search) ||
			folder.Contains(b.SeriesTitle(), *opts.Search) {
			filtered = append(filtered, b)
		}
	}

	return pagination.Slice(filtered, opts.Limit, opts.Offset), len(filtered), nil
}
