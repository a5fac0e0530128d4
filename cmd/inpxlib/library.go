package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/inpxlib/pkg/importer"
	"github.com/shishobooks/inpxlib/pkg/migrations"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/shishobooks/inpxlib/pkg/schema"
	"github.com/shishobooks/inpxlib/pkg/watch"
	"github.com/urfave/cli/v2"
)

func importFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "INPX file to import (defaults to inpx_file_path)"},
		&cli.StringSliceFlag{Name: "language", Aliases: []string{"l"}, Usage: "language to import, repeatable (defaults to import_languages)"},
		&cli.StringFlag{Name: "genre-names", Usage: "genre names file loaded after the import (defaults to genre_names_file_path)"},
	}
}

func (a *app) importOptions(c *cli.Context) (importer.ImportOptions, error) {
	opts := importer.ImportOptions{
		Path:           a.cfg.InpxFilePath,
		Languages:      a.cfg.ImportLanguages,
		GenreNamesPath: a.cfg.GenreNamesFilePath,
	}
	if c.IsSet("file") {
		opts.Path = c.String("file")
	}
	if c.IsSet("language") {
		opts.Languages = c.StringSlice("language")
	}
	if c.IsSet("genre-names") {
		opts.GenreNamesPath = c.String("genre-names")
	}
	if opts.Path == "" {
		return opts, errors.New("no INPX file given: pass --file or set inpx_file_path")
	}
	return opts, nil
}

func (a *app) importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "replace the library with the contents of an INPX file",
		Flags: importFlags(),
		Action: func(c *cli.Context) error {
			opts, err := a.importOptions(c)
			if err != nil {
				return err
			}
			if !a.out.json {
				opts.Progress = func(done float64) {
					fmt.Fprintf(os.Stderr, "\rimporting %s %3.0f%%", opts.Path, done*100)
					if done >= 1 {
						fmt.Fprintln(os.Stderr)
					}
				}
			}

			run, err := importer.NewService(a.db).Import(c.Context, opts)
			if err != nil {
				return err
			}
			return a.out.print(run, func(w io.Writer) error {
				printRun(w, run)
				return nil
			})
		},
	}
}

func printRun(w io.Writer, run *models.ImportRun) {
	fmt.Fprintf(w, "Imported %s (%s) in %s\n", run.InpxFilePath, run.Languages, run.Duration().Round(time.Millisecond))
	fmt.Fprintf(w, "Records: %s read, %s skipped\n", humanize.Comma(int64(run.RecordsTotal)), humanize.Comma(int64(run.RecordsSkipped)))
	fmt.Fprintf(w, "Books:   %s total, %s new, %s deleted\n", humanize.Comma(int64(run.BooksTotal)), humanize.Comma(int64(run.BooksNew)), humanize.Comma(int64(run.BooksDeleted)))
	fmt.Fprintf(w, "Authors: %s total, %s new, %s deleted\n", humanize.Comma(int64(run.AuthorsTotal)), humanize.Comma(int64(run.AuthorsNew)), humanize.Comma(int64(run.AuthorsDeleted)))
}

func (a *app) statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "report whether the library has to be re-imported",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "INPX file to check (defaults to inpx_file_path)"},
		},
		Action: func(c *cli.Context) error {
			path := a.cfg.InpxFilePath
			if c.IsSet("file") {
				path = c.String("file")
			}

			staleness, err := schema.CheckStale(c.Context, a.db, path)
			if err != nil {
				return err
			}
			run, err := importer.NewService(a.db).LatestRun(c.Context)
			if err != nil {
				return err
			}
			unapplied, err := migrations.Unapplied(c.Context, a.db)
			if err != nil {
				return err
			}

			result := map[string]any{
				"stale":                staleness.Stale,
				"reason":               staleness.Reason,
				"schema_version":       schema.Version,
				"unapplied_migrations": len(unapplied),
				"last_import":          run,
			}
			return a.out.print(result, func(w io.Writer) error {
				if staleness.Stale {
					fmt.Fprintf(w, "Re-import required: %s\n", staleness.Reason)
				} else {
					fmt.Fprintln(w, "Library is up to date")
				}
				if len(unapplied) > 0 {
					fmt.Fprintf(w, "Unapplied migrations: %s\n", unapplied)
				}
				if run != nil {
					fmt.Fprintf(w, "Last import: %s\n", humanize.Time(run.FinishedAt))
					printRun(w, run)
				}
				return nil
			})
		},
	}
}

func (a *app) watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "re-import the library whenever the INPX file changes",
		Flags: append(importFlags(), &cli.BoolFlag{Name: "now", Usage: "import once before watching if the library is stale"}),
		Action: func(c *cli.Context) error {
			opts, err := a.importOptions(c)
			if err != nil {
				return err
			}
			svc := importer.NewService(a.db)

			reimport := func(ctx context.Context) error {
				log := logger.FromContext(ctx)
				staleness, err := schema.CheckStale(ctx, a.db, opts.Path)
				if err != nil {
					return err
				}
				if !staleness.Stale {
					log.Debug("library is up to date")
					return nil
				}
				log.Info("re-importing library", logger.Data{"reason": staleness.Reason, "languages": strings.Join(opts.Languages, ",")})
				_, err = svc.Import(ctx, opts)
				return err
			}

			if c.Bool("now") {
				if err := reimport(c.Context); err != nil {
					return err
				}
			}

			w, err := watch.New(opts.Path, a.cfg.WatchDebounce, reimport)
			if err != nil {
				return err
			}
			ctx, stop := signalContext(c.Context)
			defer stop()
			return w.Run(ctx)
		},
	}
}
