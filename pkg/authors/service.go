package authors

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

type RetrieveAuthorOptions struct {
	ID   *int
	Name *string
}

type ListAuthorsOptions struct {
	Limit  *int
	Offset *int
	// Alpha restricts the list to authors filed under one first letter.
	Alpha *string
	// Prefix matches the beginning of the name, ignoring case.
	Prefix *string
	// Search matches anywhere in the name, ignoring case.
	Search *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// ListAlphas returns the first letters authors are filed under.
func (svc *Service) ListAlphas(ctx context.Context) ([]string, error) {
	alphas := []string{}
	err := svc.db.NewSelect().
		Model((*models.AuthorAlpha)(nil)).
		Column("alpha").
		Order("alpha ASC").
		Scan(ctx, &alphas)
	return alphas, errors.WithStack(err)
}

func (svc *Service) RetrieveAuthor(ctx context.Context, opts RetrieveAuthorOptions) (*models.Author, error) {
	author := &models.Author{}

	q := svc.db.NewSelect().
		Model(author).
		ColumnExpr("a.*").
		ColumnExpr("(SELECT COUNT(*) FROM books AS b WHERE b.author_id = a.id) AS book_count")

	if opts.ID != nil {
		q = q.Where("a.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("a.name = ?", *opts.Name)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Author")
		}
		return nil, errors.WithStack(err)
	}
	return author, nil
}

// ListAuthors returns matching authors ordered by name, along with the total
// number of matches before Limit and Offset are applied.
func (svc *Service) ListAuthors(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, int, error) {
	authors := []*models.Author{}

	q := svc.db.NewSelect().
		Model(&authors).
		ColumnExpr("a.*").
		ColumnExpr("(SELECT COUNT(*) FROM books AS b WHERE b.author_id = a.id) AS book_count").
		Order("a.name ASC")

	if opts.Alpha != nil {
		q = q.Where("a.alpha = ?", *opts.Alpha)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, 0, errors.WithStack(err)
	}

	// SQLite only folds ASCII, so names are matched here instead.
	if opts.Prefix != nil || opts.Search != nil {
		folder := sortname.NewFolder()
		filtered := authors[:0]
		for _, a := range authors {
			if opts.Prefix != nil && !folder.HasPrefix(a.Name, *opts.Prefix) {
				continue
			}
			if opts.Search != nil && !folder.Contains(a.Name, *opts.Search) {
				continue
			}
			filtered = append(filtered, a)
		}
		authors = filtered
	}

	return pagination.Slice(authors, opts.Limit, opts.Offset), len(authors), nil
}
