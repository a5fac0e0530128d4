package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v2"
)

type printer struct {
	w    io.Writer
	json bool
}

// print writes v as JSON in JSON mode, or calls text otherwise.
func (p *printer) print(v any, text func(w io.Writer) error) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(v))
	}
	return text(p.w)
}

// table writes tab-separated rows as aligned columns.
func table(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return errors.WithStack(tw.Flush())
}

func optString(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	s := c.String(name)
	return &s
}

func optInt(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}
	i := c.Int(name)
	return &i
}

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 50, Usage: "maximum number of results"},
		&cli.IntFlag{Name: "offset", Usage: "number of results to skip"},
	}
}

func page(c *cli.Context) (*int, *int) {
	limit := c.Int("limit")
	offset := c.Int("offset")
	return &limit, &offset
}

func footer(w io.Writer, shown, total int) {
	if shown < total {
		fmt.Fprintf(w, "\nshowing %d of %d\n", shown, total)
	}
}
