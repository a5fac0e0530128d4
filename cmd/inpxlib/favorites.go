package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/favorites"
	"github.com/urfave/cli/v2"
)

func (a *app) favoritesCommand() *cli.Command {
	svc := favorites.NewService(a.db)

	nameArg := func(c *cli.Context) (string, error) {
		name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
		if name == "" {
			return "", errors.New("a name is required")
		}
		return name, nil
	}
	done := func(format string, args ...any) error {
		if a.out.json {
			return nil
		}
		_, err := fmt.Fprintf(a.out.w, format+"\n", args...)
		return errors.WithStack(err)
	}

	return &cli.Command{
		Name:  "favorites",
		Usage: "manage favorite authors and series",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list favorite authors and series",
				Action: func(c *cli.Context) error {
					favAuthors, err := svc.ListAuthors(c.Context)
					if err != nil {
						return err
					}
					favSeries, err := svc.ListSeries(c.Context)
					if err != nil {
						return err
					}
					return a.out.print(map[string]any{"authors": favAuthors, "series": favSeries}, func(w io.Writer) error {
						fmt.Fprintln(w, "Authors:")
						for _, fa := range favAuthors {
							fmt.Fprintf(w, "  %s\n", fa.Name)
						}
						fmt.Fprintln(w, "Series:")
						for _, fs := range favSeries {
							fmt.Fprintf(w, "  %s\n", fs.Title)
						}
						return nil
					})
				},
			},
			{
				Name:      "add-author",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name, err := nameArg(c)
					if err != nil {
						return err
					}
					if _, err := svc.AddAuthor(c.Context, name); err != nil {
						return err
					}
					return done("Added %s to favorite authors", name)
				},
			},
			{
				Name:      "remove-author",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name, err := nameArg(c)
					if err != nil {
						return err
					}
					if err := svc.RemoveAuthor(c.Context, name); err != nil {
						return err
					}
					return done("Removed %s from favorite authors", name)
				},
			},
			{
				Name:      "add-series",
				ArgsUsage: "TITLE",
				Action: func(c *cli.Context) error {
					title, err := nameArg(c)
					if err != nil {
						return err
					}
					if _, err := svc.AddSeries(c.Context, title); err != nil {
						return err
					}
					return done("Added %s to favorite series", title)
				},
			},
			{
				Name:      "remove-series",
				ArgsUsage: "TITLE",
				Action: func(c *cli.Context) error {
					title, err := nameArg(c)
					if err != nil {
						return err
					}
					if err := svc.RemoveSeries(c.Context, title); err != nil {
						return err
					}
					return done("Removed %s from favorite series", title)
				},
			},
			{
				Name:  "cleanup",
				Usage: "remove favorites that are no longer in the library",
				Action: func(c *cli.Context) error {
					res, err := svc.Cleanup(c.Context)
					if err != nil {
						return err
					}
					return a.out.print(res, func(w io.Writer) error {
						_, err := fmt.Fprintf(w, "Removed %d authors and %d series\n", res.Authors, res.Series)
						return errors.WithStack(err)
					})
				},
			},
		},
	}
}
