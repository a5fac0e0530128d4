package genres

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/errcodes"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/uptrace/bun"
)

type ListGenresOptions struct {
	// Category filters by the category loaded with the genre names.
	Category *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) selectGenres(model interface{}) *bun.SelectQuery {
	return svc.db.NewSelect().
		Model(model).
		ColumnExpr("gt.*").
		ColumnExpr("gn.name AS name").
		ColumnExpr("gn.category AS category").
		ColumnExpr("(SELECT COUNT(DISTINCT bg.book_id) FROM book_genres AS bg WHERE bg.genre_id = gt.id) AS book_count").
		Join("LEFT JOIN genre_names AS gn ON gn.tag = gt.tag")
}

// ListGenres returns every genre tag with its display name, when one was
// loaded, ordered by category and name.
func (svc *Service) ListGenres(ctx context.Context, opts ListGenresOptions) ([]*models.GenreTag, error) {
	genres := []*models.GenreTag{}

	q := svc.selectGenres(&genres).
		OrderExpr("COALESCE(gn.category, '') ASC").
		OrderExpr("COALESCE(gn.name, gt.tag) ASC")
	if opts.Category != nil {
		q = q.Where("gn.category = ?", *opts.Category)
	}

	err := q.Scan(ctx)
	return genres, errors.WithStack(err)
}

func (svc *Service) RetrieveGenre(ctx context.Context, id int) (*models.GenreTag, error) {
	genre := &models.GenreTag{}
	err := svc.selectGenres(genre).Where("gt.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Genre")
		}
		return nil, errors.WithStack(err)
	}
	return genre, nil
}

// LoadNames reads tab-separated "tag, name, category" lines from r into the
// genre names table, replacing names already stored for the same tags. Blank
// lines and lines starting with "#" are ignored. It returns the number of
// names stored.
func LoadNames(ctx context.Context, db bun.IDB, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var names []*models.GenreName
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, errors.Wrap(err, "failed to read genre names")
		}
		if len(fields) < 2 {
			line, _ := cr.FieldPos(0)
			return 0, errors.Errorf("genre names line %d: expected tag and name", line)
		}

		name := &models.GenreName{
			Tag:  strings.ToLower(strings.TrimSpace(fields[0])),
			Name: strings.TrimSpace(fields[1]),
		}
		if len(fields) > 2 {
			name.Category = strings.TrimSpace(fields[2])
		}
		if name.Tag == "" {
			continue
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return 0, nil
	}

	_, err := db.NewInsert().
		Model(&names).
		On("CONFLICT (tag) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("category = EXCLUDED.category").
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return len(names), nil
}

func (svc *Service) LoadNames(ctx context.Context, r io.Reader) (int, error) {
	return LoadNames(ctx, svc.db, r)
}
