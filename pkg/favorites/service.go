package favorites

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/errcodes"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) AddAuthor(ctx context.Context, name string) (*models.FavoriteAuthor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errcodes.ValidationError("Author name is required.")
	}

	exists, err := svc.db.NewSelect().
		Model((*models.Author)(nil)).
		Where("a.name = ?", name).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.NotFound("Author")
	}

	fav := &models.FavoriteAuthor{Name: name, CreatedAt: time.Now()}
	_, err = svc.db.NewInsert().
		Model(fav).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return fav, nil
}

func (svc *Service) RemoveAuthor(ctx context.Context, name string) error {
	res, err := svc.db.NewDelete().
		Model((*models.FavoriteAuthor)(nil)).
		Where("name = ?", name).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Favorite author")
	}
	return nil
}

func (svc *Service) ListAuthors(ctx context.Context) ([]*models.FavoriteAuthor, error) {
	favs := []*models.FavoriteAuthor{}
	err := svc.db.NewSelect().
		Model(&favs).
		Order("fa.name ASC").
		Scan(ctx)
	return favs, errors.WithStack(err)
}

func (svc *Service) AddSeries(ctx context.Context, title string) (*models.FavoriteSeries, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errcodes.ValidationError("Series title is required.")
	}

	exists, err := svc.db.NewSelect().
		Model((*models.Series)(nil)).
		Where("s.title = ?", title).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.NotFound("Series")
	}

	fav := &models.FavoriteSeries{Title: title, CreatedAt: time.Now()}
	_, err = svc.db.NewInsert().
		Model(fav).
		On("CONFLICT (title) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return fav, nil
}

func (svc *Service) RemoveSeries(ctx context.Context, title string) error {
	res, err := svc.db.NewDelete().
		Model((*models.FavoriteSeries)(nil)).
		Where("title = ?", title).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Favorite series")
	}
	return nil
}

func (svc *Service) ListSeries(ctx context.Context) ([]*models.FavoriteSeries, error) {
	favs := []*models.FavoriteSeries{}
	err := svc.db.NewSelect().
		Model(&favs).
		Order("fs.title ASC").
		Scan(ctx)
	return favs, errors.WithStack(err)
}

// CleanupResult counts the favorites removed by Cleanup.
type CleanupResult struct {
	Authors int64 `json:"authors"`
	Series  int64 `json:"series"`
}

// Cleanup deletes favorites whose author or series no longer exists in the
// library. It runs after every import.
func Cleanup(ctx context.Context, db bun.IDB) (*CleanupResult, error) {
	res, err := db.NewDelete().
		Model((*models.FavoriteAuthor)(nil)).
		Where("name NOT IN (SELECT name FROM authors)").
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to clean up favorite authors")
	}
	result := &CleanupResult{}
	result.Authors, _ = res.RowsAffected()

	res, err = db.NewDelete().
		Model((*models.FavoriteSeries)(nil)).
		Where("title NOT IN (SELECT title FROM series)").
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to clean up favorite series")
	}
	result.Series, _ = res.RowsAffected()

	return result, nil
}

func (svc *Service) Cleanup(ctx context.Context) (*CleanupResult, error) {
	return Cleanup(ctx, svc.db)
}
