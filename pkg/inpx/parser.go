package inpx

import (
	"archive/zip"
	"bufio"
	"context"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type indexFile struct {
	bundle string
	file   *zip.File
}

// ParseFile parses the INPX archive at path. See Parse.
func ParseFile(ctx context.Context, path string, h Handler, progress ProgressFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to process INPX file %q", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, "failed to process INPX file %q", path)
	}

	return errors.Wrapf(Parse(ctx, f, info.Size(), h, progress), "failed to process INPX file %q", path)
}

// Parse reads every catalog file of an INPX archive and hands each record to
// h. Catalog files are read in order of their bundle names, so records from
// later bundles can replace earlier ones that share a library id. Any
// malformed record aborts the whole parse. progress, if not nil, is called
// after each catalog file.
func Parse(ctx context.Context, r io.ReaderAt, size int64, h Handler, progress ProgressFunc) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return errors.WithStack(err)
	}

	indexes := listIndexFiles(zr)
	for i, ix := range indexes {
		if err := parseIndexFile(ctx, ix, h); err != nil {
			return err
		}
		if progress != nil {
			progress(float64(i+1) / float64(len(indexes)))
		}
	}

	return nil
}

func listIndexFiles(zr *zip.Reader) []indexFile {
	var indexes []indexFile
	for _, f := range zr.File {
		if f.UncompressedSize64 == 0 {
			continue
		}
		ext := path.Ext(f.Name)
		if !strings.EqualFold(ext, IndexExt) {
			continue
		}
		indexes = append(indexes, indexFile{
			bundle: strings.TrimSuffix(f.Name, ext) + BundleExt,
			file:   f,
		})
	}
	sort.SliceStable(indexes, func(i, j int) bool {
		return indexes[i].bundle < indexes[j].bundle
	})
	return indexes
}

func parseIndexFile(ctx context.Context, ix indexFile, h Handler) error {
	rc, err := ix.file.Open()
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", ix.file.Name)
	}
	defer rc.Close()

	modified := ix.file.Modified
	defaultDate := time.Date(modified.Year(), modified.Month(), modified.Day(), 0, 0, 0, 0, time.UTC)

	// Invalid UTF-8 sequences are replaced with U+FFFD instead of failing.
	br := bufio.NewReader(transform.NewReader(rc, unicode.UTF8BOM.NewDecoder()))

	for recordNum := 1; ; recordNum++ {
		line, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return errors.Wrapf(readErr, "failed to read %q", ix.file.Name)
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			if err := ctx.Err(); err != nil {
				return errors.WithStack(err)
			}

			fields := strings.Split(line, FieldSeparator)
			rec, err := parseRecord(fields, ix.bundle, defaultDate)
			if err != nil {
				return errors.Wrapf(err, "bad record #%d in %q, record: %s", recordNum, ix.file.Name, strings.Join(fields, ";"))
			}
			if err := h.HandleRecord(ctx, rec); err != nil {
				return errors.Wrapf(err, "failed to store record #%d from %q", recordNum, ix.file.Name)
			}
		}

		if readErr == io.EOF {
			return nil
		}
	}
}

func parseRecord(fields []string, bundle string, defaultDate time.Time) (*Record, error) {
	if len(fields) < fieldCount {
		return nil, errors.Errorf("expected at least %d fields, got %d", fieldCount, len(fields))
	}

	rawLibID := fields[fieldLibID]
	if !isDigits(rawLibID) {
		return nil, errors.Errorf("invalid LIBID value %q", rawLibID)
	}
	libID, err := strconv.ParseInt(rawLibID, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid LIBID value %q", rawLibID)
	}

	return &Record{
		Author:       NormalizeAuthorName(fields[fieldAuthor]),
		Genres:       ParseGenres(fields[fieldGenre]),
		Title:        strings.TrimSpace(fields[fieldTitle]),
		Series:       strings.TrimSpace(fields[fieldSeries]),
		SeriesNumber: int(parseCount(fields[fieldSeriesNumber])),
		File:         fields[fieldFile],
		Size:         parseCount(fields[fieldSize]),
		LibID:        libID,
		Deleted:      fields[fieldDeleted] == "1",
		Ext:          fields[fieldExt],
		Date:         ParseDate(fields[fieldDate], defaultDate),
		Language:     strings.ToLower(strings.TrimSpace(fields[fieldLanguage])),
		Keywords:     strings.ToLower(strings.TrimSpace(fields[fieldKeywords])),
		Bundle:       bundle,
	}, nil
}
