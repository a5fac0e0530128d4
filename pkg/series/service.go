package series

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

type RetrieveSeriesOptions struct {
	ID    *int
	Title *string
}

type ListSeriesOptions struct {
	Limit  *int
	Offset *int
	Alpha  *string
	Prefix *string
	Search *string
	// AuthorID restricts the list to series the author has books in.
	AuthorID *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) ListAlphas(ctx context.Context) ([]string, error) {
	alphas := []string{}
	err := svc.db.NewSelect().
		Model((*models.SeriesAlpha)(nil)).
		Column("alpha").
		Order("alpha ASC").
		Scan(ctx, &alphas)
	return alphas, errors.WithStack(err)
}

func (svc *Service) selectSeries(model interface{}) *bun.SelectQuery {
	return svc.db.NewSelect().
		Model(model).
		ColumnExpr("s.*").
		ColumnExpr("(SELECT COUNT(*) FROM books AS b WHERE b.series_id = s.id) AS book_count")
}

func (svc *Service) RetrieveSeries(ctx context.Context, opts RetrieveSeriesOptions) (*models.Series, error) {
	series := &models.Series{}

	q := svc.selectSeries(series)
	if opts.ID != nil {
		q = q.Where("s.id = ?", *opts.ID)
	}
	if opts.Title != nil {
		q = q.Where("s.title = ?", *opts.Title)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Series")
		}
		return nil, errors.WithStack(err)
	}
	return series, nil
}

// ListSeries returns matching series ordered by title and the number of
// matches before pagination.
func (svc *Service) ListSeries(ctx context.Context, opts ListSeriesOptions) ([]*models.Series, int, error) {
	series := []*models.Series{}

	q := svc.selectSeries(&series).Order("s.title ASC")
	if opts.Alpha != nil {
		q = q.Where("s.alpha = ?", *opts.Alpha)
	}
	if opts.AuthorID != nil {
		q = q.Where("s.id IN (SELECT b.series_id FROM books AS b WHERE b.author_id = ?)", *opts.AuthorID)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, 0, errors.WithStack(err)
	}

	if opts.Prefix != nil || opts.Search != nil {
		folder := sortname.NewFolder()
		filtered := series[:0]
		for _, s := range series {
			if opts.Prefix != nil && !folder.HasPrefix(s.Title, *opts.Prefix) {
				continue
			}
			if opts.Search != nil && !folder.Contains(s.Title, *opts.Search) {
				continue
			}
			filtered = append(filtered, s)
		}
		series = filtered
	}

	return pagination.Slice(series, opts.Limit, opts.Offset), len(series), nil
}
