package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/authors"
	"github.com/shishobooks/inpxlib/pkg/books"
	"github.com/shishobooks/inpxlib/pkg/genres"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/shishobooks/inpxlib/pkg/series"
	"github.com/urfave/cli/v2"
)

func alphasCommand(list func(c *cli.Context) ([]string, error), out *printer) *cli.Command {
	return &cli.Command{
		Name:  "alphas",
		Usage: "list first letters",
		Action: func(c *cli.Context) error {
			alphas, err := list(c)
			if err != nil {
				return err
			}
			return out.print(map[string]any{"alphas": alphas}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, strings.Join(alphas, " "))
				return errors.WithStack(err)
			})
		},
	}
}

func nameFilterFlags() []cli.Flag {
	return append(pageFlags(),
		&cli.StringFlag{Name: "alpha", Aliases: []string{"a"}, Usage: "first letter"},
		&cli.StringFlag{Name: "prefix", Aliases: []string{"p"}, Usage: "beginning of the name, ignoring case"},
		&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "part of the name, ignoring case"},
	)
}

func (a *app) authorsCommand() *cli.Command {
	svc := authors.NewService(a.db)
	return &cli.Command{
		Name:  "authors",
		Usage: "list authors",
		Flags: nameFilterFlags(),
		Subcommands: []*cli.Command{
			alphasCommand(func(c *cli.Context) ([]string, error) { return svc.ListAlphas(c.Context) }, a.out),
		},
		Action: func(c *cli.Context) error {
			limit, offset := page(c)
			list, total, err := svc.ListAuthors(c.Context, authors.ListAuthorsOptions{
				Limit:  limit,
				Offset: offset,
				Alpha:  optString(c, "alpha"),
				Prefix: optString(c, "prefix"),
				Search: optString(c, "search"),
			})
			if err != nil {
				return err
			}
			return a.out.print(map[string]any{"authors": list, "total": total}, func(w io.Writer) error {
				rows := make([][]string, 0, len(list))
				for _, au := range list {
					rows = append(rows, []string{strconv.Itoa(au.ID), au.Name, strconv.Itoa(au.BookCount)})
				}
				if err := table(w, []string{"ID", "NAME", "BOOKS"}, rows); err != nil {
					return err
				}
				footer(w, len(list), total)
				return nil
			})
		},
	}
}

func (a *app) seriesCommand() *cli.Command {
	svc := series.NewService(a.db)
	return &cli.Command{
		Name:  "series",
		Usage: "list series",
		Flags: append(nameFilterFlags(), &cli.IntFlag{Name: "author-id", Usage: "only series the author has books in"}),
		Subcommands: []*cli.Command{
			alphasCommand(func(c *cli.Context) ([]string, error) { return svc.ListAlphas(c.Context) }, a.out),
		},
		Action: func(c *cli.Context) error {
			limit, offset := page(c)
			list, total, err := svc.ListSeries(c.Context, series.ListSeriesOptions{
				Limit:    limit,
				Offset:   offset,
				Alpha:    optString(c, "alpha"),
				Prefix:   optString(c, "prefix"),
				Search:   optString(c, "search"),
				AuthorID: optInt(c, "author-id"),
			})
			if err != nil {
				return err
			}
			return a.out.print(map[string]any{"series": list, "total": total}, func(w io.Writer) error {
				rows := make([][]string, 0, len(list))
				for _, s := range list {
					rows = append(rows, []string{strconv.Itoa(s.ID), s.Title, strconv.Itoa(s.BookCount)})
				}
				if err := table(w, []string{"ID", "TITLE", "BOOKS"}, rows); err != nil {
					return err
				}
				footer(w, len(list), total)
				return nil
			})
		},
	}
}

func seriesLabel(b *models.Book) string {
	title := b.SeriesTitle()
	if title == "" || b.SeriesNumber == 0 {
		return title
	}
	return fmt.Sprintf("%s #%d", title, b.SeriesNumber)
}

func (a *app) booksCommand() *cli.Command {
	svc := books.NewService(a.db)
	return &cli.Command{
		Name:  "books",
		Usage: "list books",
		Flags: append(pageFlags(),
			&cli.IntFlag{Name: "author-id", Usage: "books of one author"},
			&cli.IntFlag{Name: "series-id", Usage: "books of one series"},
			&cli.IntFlag{Name: "genre-id", Usage: "books of one genre"},
			&cli.StringFlag{Name: "favorites", Usage: "books of favorite authors, series or all favorites"},
			&cli.StringFlag{Name: "language", Usage: "language code"},
			&cli.StringFlag{Name: "from", Usage: "books added on or after a date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "part of the title, author or series, ignoring case"},
		),
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "show one book",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := strconv.ParseInt(c.Args().First(), 10, 64)
					if err != nil {
						return errors.Errorf("invalid book id %q", c.Args().First())
					}
					book, err := svc.RetrieveBook(c.Context, id)
					if err != nil {
						return err
					}
					tags, err := svc.ListBookGenres(c.Context, id)
					if err != nil {
						return err
					}
					response := struct {
						*models.Book
						Genres []string `json:"genres"`
					}{book, tags}
					return a.out.print(response, func(w io.Writer) error {
						fmt.Fprintf(w, "ID:       %d\n", book.ID)
						fmt.Fprintf(w, "Title:    %s\n", book.Title)
						fmt.Fprintf(w, "Author:   %s\n", book.AuthorName())
						if label := seriesLabel(book); label != "" {
							fmt.Fprintf(w, "Series:   %s\n", label)
						}
						fmt.Fprintf(w, "Genres:   %s\n", strings.Join(tags, ", "))
						fmt.Fprintf(w, "File:     %s (%s)\n", book.ArchiveEntryName(), humanize.IBytes(uint64(book.FileSize)))
						if book.Bundle != nil {
							fmt.Fprintf(w, "Bundle:   %s\n", book.Bundle.Filename)
						}
						fmt.Fprintf(w, "Date:     %s\n", book.Date)
						fmt.Fprintf(w, "Language: %s\n", book.Language)
						if book.Keywords != "" {
							fmt.Fprintf(w, "Keywords: %s\n", book.Keywords)
						}
						return nil
					})
				},
			},
		},
		Action: func(c *cli.Context) error {
			favorites := optString(c, "favorites")
			if favorites != nil {
				switch *favorites {
				case books.FavoritesAuthors, books.FavoritesSeries, books.FavoritesAll:
				default:
					return errors.Errorf("--favorites must be one of %s, %s or %s", books.FavoritesAuthors, books.FavoritesSeries, books.FavoritesAll)
				}
			}

			limit, offset := page(c)
			list, total, err := svc.ListBooks(c.Context, books.ListBooksOptions{
				Limit:     limit,
				Offset:    offset,
				AuthorID:  optInt(c, "author-id"),
				SeriesID:  optInt(c, "series-id"),
				GenreID:   optInt(c, "genre-id"),
				Favorites: favorites,
				Language:  optString(c, "language"),
				DateFrom:  optString(c, "from"),
				Search:    optString(c, "search"),
			})
			if err != nil {
				return err
			}
			return a.out.print(map[string]any{"books": list, "total": total}, func(w io.Writer) error {
				rows := make([][]string, 0, len(list))
				for _, b := range list {
					rows = append(rows, []string{
						strconv.FormatInt(b.ID, 10),
						b.AuthorName(),
						seriesLabel(b),
						b.Title,
						b.FileType,
						humanize.IBytes(uint64(b.FileSize)),
						b.Date,
					})
				}
				if err := table(w, []string{"ID", "AUTHOR", "SERIES", "TITLE", "TYPE", "SIZE", "DATE"}, rows); err != nil {
					return err
				}
				footer(w, len(list), total)
				return nil
			})
		},
	}
}

func (a *app) genresCommand() *cli.Command {
	svc := genres.NewService(a.db)
	return &cli.Command{
		Name:  "genres",
		Usage: "list genres",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "genre category"},
		},
		Subcommands: []*cli.Command{
			{
				Name:      "load-names",
				Usage:     "load genre display names from a tab-separated file",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						path = a.cfg.GenreNamesFilePath
					}
					if path == "" {
						return errors.New("no genre names file given: pass FILE or set genre_names_file_path")
					}
					f, err := os.Open(path)
					if err != nil {
						return errors.WithStack(err)
					}
					defer f.Close()

					n, err := svc.LoadNames(c.Context, f)
					if err != nil {
						return errors.Wrapf(err, "failed to load genre names from %q", path)
					}
					return a.out.print(map[string]any{"loaded": n}, func(w io.Writer) error {
						_, err := fmt.Fprintf(w, "Loaded %d genre names\n", n)
						return errors.WithStack(err)
					})
				},
			},
		},
		Action: func(c *cli.Context) error {
			list, err := svc.ListGenres(c.Context, genres.ListGenresOptions{Category: optString(c, "category")})
			if err != nil {
				return err
			}
			return a.out.print(map[string]any{"genres": list, "total": len(list)}, func(w io.Writer) error {
				rows := make([][]string, 0, len(list))
				for _, g := range list {
					name, category := "", ""
					if g.Name != nil {
						name = *g.Name
					}
					if g.Category != nil {
						category = *g.Category
					}
					rows = append(rows, []string{strconv.Itoa(g.ID), g.Tag, name, category, strconv.Itoa(g.BookCount)})
				}
				return table(w, []string{"ID", "TAG", "NAME", "CATEGORY", "BOOKS"}, rows)
			})
		},
	}
}
