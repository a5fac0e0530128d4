package main

import (
	"context"
	"os"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/inpxlib/pkg/config"
	"github.com/shishobooks/inpxlib/pkg/database"
	"github.com/shishobooks/inpxlib/pkg/version"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

type app struct {
	cfg *config.Config
	db  *bun.DB
	out *printer
}

func main() {
	log := logger.New()
	ctx := log.WithContext(context.Background())

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	res, err := database.Prepare(ctx, db)
	if err != nil {
		log.Err(err).Fatal("database prepare error")
	}
	if res.GroupID != 0 {
		log.Info("migrated to new group", logger.Data{"group_id": res.GroupID, "migration_names": res.Migrations})
	}

	a := &app{cfg: cfg, db: db, out: &printer{w: os.Stdout}}

	cliApp := &cli.App{
		Name:    "inpxlib",
		Usage:   "browse an INPX library and extract books from it",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print results as JSON"},
		},
		Before: func(c *cli.Context) error {
			a.out.json = c.Bool("json")
			return nil
		},
		Commands: []*cli.Command{
			a.importCommand(),
			a.statusCommand(),
			a.watchCommand(),
			a.authorsCommand(),
			a.seriesCommand(),
			a.booksCommand(),
			a.genresCommand(),
			a.favoritesCommand(),
			a.extractCommand(),
			a.templatesCommand(),
			a.serveCommand(),
		},
	}
	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}
