// Package importer loads an INPX index into the library tables.
package importer

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/inpxlib/pkg/favorites"
	"github.com/shishobooks/inpxlib/pkg/genres"
	"github.com/shishobooks/inpxlib/pkg/inpx"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/shishobooks/inpxlib/pkg/schema"
	"github.com/uptrace/bun"
)

type ImportOptions struct {
	// Path is the INPX file to import.
	Path string
	// Languages lists the language codes to import. Records in any other
	// language are skipped.
	Languages []string
	// GenreNamesPath, if set, is loaded into the genre names table once the
	// index has been imported.
	GenreNamesPath string
	Progress       inpx.ProgressFunc
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Import replaces the library with the contents of the index at opts.Path.
// Everything happens in one transaction, so a failed or cancelled import
// leaves the previous library in place.
func (svc *Service) Import(ctx context.Context, opts ImportOptions) (*models.ImportRun, error) {
	log := logger.FromContext(ctx)

	info, err := os.Stat(opts.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to process INPX file %q", opts.Path)
	}

	languages := make([]string, 0, len(opts.Languages))
	for _, lang := range opts.Languages {
		languages = append(languages, strings.ToLower(strings.TrimSpace(lang)))
	}

	run := &models.ImportRun{
		ID:           uuid.NewString(),
		StartedAt:    time.Now(),
		InpxFilePath: opts.Path,
		Languages:    strings.Join(languages, ","),
	}
	log.Info("importing library", logger.Data{"run_id": run.ID, "path": opts.Path, "languages": run.Languages})

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := snapshot(ctx, tx); err != nil {
			return err
		}
		if err := schema.ResetTables(ctx, tx); err != nil {
			return err
		}

		n := newNormalizer(tx, languages)
		if err := inpx.ParseFile(ctx, opts.Path, n, opts.Progress); err != nil {
			return err
		}
		run.RecordsTotal = n.recordsTotal
		run.RecordsSkipped = n.recordsSkipped

		if opts.GenreNamesPath != "" {
			loaded, err := loadGenreNames(ctx, tx, opts.GenreNamesPath)
			if err != nil {
				return err
			}
			log.Info("loaded genre names", logger.Data{"path": opts.GenreNamesPath, "count": loaded})
		}

		cleaned, err := favorites.Cleanup(ctx, tx)
		if err != nil {
			return err
		}
		if cleaned.Authors > 0 || cleaned.Series > 0 {
			log.Info("removed stale favorites", logger.Data{"authors": cleaned.Authors, "series": cleaned.Series})
		}

		if err := schema.RecordImport(ctx, tx, opts.Path, info.ModTime()); err != nil {
			return err
		}

		if err := collectStats(ctx, tx, run); err != nil {
			return err
		}
		run.FinishedAt = time.Now()
		if _, err := tx.NewInsert().Model(run).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		return dropSnapshot(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	log.Info("imported library", logger.Data{
		"run_id":          run.ID,
		"records":         run.RecordsTotal,
		"records_skipped": run.RecordsSkipped,
		"books":           run.BooksTotal,
		"books_new":       run.BooksNew,
		"books_deleted":   run.BooksDeleted,
		"duration_ms":     run.Duration().Milliseconds(),
	})

	return run, nil
}

func loadGenreNames(ctx context.Context, tx bun.Tx, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	defer f.Close()

	n, err := genres.LoadNames(ctx, tx, f)
	return n, errors.Wrapf(err, "failed to load genre names from %q", path)
}

// LatestRun returns the most recent import, or nil if there hasn't been one.
func (svc *Service) LatestRun(ctx context.Context) (*models.ImportRun, error) {
	run := &models.ImportRun{}
	err := svc.db.NewSelect().
		Model(run).
		Order("ir.started_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}
	return run, nil
}

// ListRuns returns past imports, newest first.
func (svc *Service) ListRuns(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	runs := []*models.ImportRun{}
	err := svc.db.NewSelect().
		Model(&runs).
		Order("ir.started_at DESC").
		Limit(limit).
		Scan(ctx)
	return runs, errors.WithStack(err)
}
