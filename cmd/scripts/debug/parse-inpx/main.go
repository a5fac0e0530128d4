package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/inpxlib/pkg/inpx"
)

func main() {
	log := logger.New()

	var opts struct {
		Limit  int    `short:"n" long:"limit" default:"20" description:"Number of records to print (0 prints all of them)"`
		Bundle string `short:"b" long:"bundle" description:"Only print records from this bundle"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/debug/parse-inpx <path/to/index.inpx>")
		os.Exit(1)
	}

	printed := 0
	total := 0
	deleted := 0
	handler := inpx.HandlerFunc(func(_ context.Context, rec *inpx.Record) error {
		total++
		if rec.Deleted {
			deleted++
		}
		if opts.Bundle != "" && rec.Bundle != opts.Bundle {
			return nil
		}
		if opts.Limit > 0 && printed >= opts.Limit {
			return nil
		}
		printed++
		fmt.Printf("%d\t%s\t%s\t%s #%d\t%s.%s\t%s\t%s\t[%s]\n",
			rec.LibID, rec.Author, rec.Title, rec.Series, rec.SeriesNumber,
			rec.File, rec.Ext, rec.Bundle, rec.Language, strings.Join(rec.Genres, ","))
		return nil
	})

	progress := func(done float64) {
		log.Debug("index file processed", logger.Data{"progress": done})
	}

	if err := inpx.ParseFile(context.Background(), args[0], handler, progress); err != nil {
		log.Err(err).Fatal("inpx parse error")
	}
	fmt.Printf("Records: %d\nDeleted: %d\n", total, deleted)
}
