package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/extract"
	"github.com/shishobooks/inpxlib/pkg/fileutils"
	"github.com/urfave/cli/v2"
)

func (a *app) extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "copy books out of their bundles",
		ArgsUsage: "ID...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dest", Aliases: []string{"d"}, Usage: "destination directory (defaults to extract_directory)"},
			&cli.StringFlag{Name: "library", Usage: "directory holding the bundles (defaults to library_directory)"},
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "file naming template, see the templates command (defaults to extract_template)"},
			&cli.BoolFlag{Name: "zip", Usage: "pack each book into its own zip archive (defaults to extract_pack_zip)"},
		},
		Action: func(c *cli.Context) error {
			ids := make([]int64, 0, c.NArg())
			for _, arg := range c.Args().Slice() {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return errors.Errorf("invalid book id %q", arg)
				}
				ids = append(ids, id)
			}

			opts := extract.Options{
				DestDir:    a.cfg.ExtractDirectory,
				LibraryDir: a.cfg.LibraryDirectory,
				PackToZip:  a.cfg.ExtractPackZip,
			}
			if c.IsSet("dest") {
				opts.DestDir = c.String("dest")
			}
			if c.IsSet("library") {
				opts.LibraryDir = c.String("library")
			}
			if c.IsSet("zip") {
				opts.PackToZip = c.Bool("zip")
			}
			templateName := a.cfg.ExtractTemplate
			if c.IsSet("template") {
				templateName = c.String("template")
			}
			tmpl, ok := fileutils.TemplateByName(templateName)
			if !ok {
				return errors.Errorf("unknown template %q, expected one of %v", templateName, fileutils.TemplateNames())
			}
			opts.Template = tmpl
			if !a.out.json {
				opts.Progress = func(done float64) {
					fmt.Fprintf(os.Stderr, "\rextracting %3.0f%%", done*100)
					if done >= 1 {
						fmt.Fprintln(os.Stderr)
					}
				}
			}

			res, err := extract.NewService(a.db).ExtractBooks(c.Context, ids, opts)
			if err != nil {
				return err
			}
			return a.out.print(res, func(w io.Writer) error {
				for _, f := range res.Files {
					fmt.Fprintln(w, f)
				}
				if report := res.Report(); report != "" {
					fmt.Fprintln(w, report)
				}
				return nil
			})
		},
	}
}

func (a *app) templatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "list file naming templates",
		Action: func(_ *cli.Context) error {
			type entry struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Default     bool   `json:"default"`
			}
			entries := []entry{}
			for _, t := range fileutils.Templates() {
				entries = append(entries, entry{t.Name(), t.Description(), t.Name() == a.cfg.ExtractTemplate})
			}
			return a.out.print(entries, func(w io.Writer) error {
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					name := e.Name
					if e.Default {
						name += " *"
					}
					rows = append(rows, []string{name, e.Description})
				}
				return table(w, []string{"NAME", "DESCRIPTION"}, rows)
			})
		},
	}
}
