// Package extract copies books out of their bundles into a destination
// directory.
package extract

import (
	"archive/zip"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/inpxlib/pkg/fileutils"
	"github.com/shishobooks/inpxlib/pkg/inpx"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/uptrace/bun"
)

const zipMimeType = "application/zip"

type Options struct {
	// DestDir must already exist.
	DestDir string
	// LibraryDir holds the bundles.
	LibraryDir string
	PackToZip  bool
	// Template defaults to fileutils.DefaultTemplate.
	Template fileutils.Template
	Progress inpx.ProgressFunc
}

// Result describes one extraction. Problems with individual books or bundles
// are collected in Messages instead of failing the whole extraction.
type Result struct {
	Requested int      `json:"requested"`
	Files     []string `json:"files"`
	Messages  []string `json:"messages"`
}

// Extracted is the number of books written to the destination.
func (r *Result) Extracted() int {
	return len(r.Files)
}

// Report returns the messages as one line each, or an empty string if every
// requested book was extracted.
func (r *Result) Report() string {
	return strings.Join(r.Messages, "\n")
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Extract extracts the books with the given ids and returns the report of
// anything that went wrong. The error is only set for database failures and
// cancellation.
func (svc *Service) Extract(ctx context.Context, ids []int64, opts Options) (string, error) {
	res, err := svc.ExtractBooks(ctx, ids, opts)
	if err != nil {
		return "", err
	}
	return res.Report(), nil
}

// bundleBooks are the requested books stored in one bundle.
type bundleBooks struct {
	filename string
	books    []*models.Book
}

func (svc *Service) ExtractBooks(ctx context.Context, ids []int64, opts Options) (*Result, error) {
	ids = uniqueIDs(ids)
	res := &Result{Requested: len(ids), Files: []string{}, Messages: []string{}}
	if len(ids) == 0 {
		return res, nil
	}

	if info, err := os.Stat(opts.DestDir); err != nil || !info.IsDir() {
		res.addf("destination directory %q not found", opts.DestDir)
		return res, nil
	}

	if opts.Template == nil {
		opts.Template = fileutils.DefaultTemplate
	}

	groups, total, err := svc.groupByBundle(ctx, ids, res)
	if err != nil {
		return nil, err
	}

	x := &extraction{
		opts:        opts,
		res:         res,
		total:       total,
		createdDirs: make(map[string]struct{}),
		log:         logger.FromContext(ctx),
	}
	for _, group := range groups {
		if err := x.extractBundle(ctx, group); err != nil {
			return nil, err
		}
	}

	if res.Extracted() < res.Requested {
		res.addf("extracted %d of %d books", res.Extracted(), res.Requested)
	}

	return res, nil
}

// groupByBundle loads the requested books and groups them by bundle in the
// order the bundles were first seen.
func (svc *Service) groupByBundle(ctx context.Context, ids []int64, res *Result) ([]*bundleBooks, int, error) {
	var groups []*bundleBooks
	byName := make(map[string]*bundleBooks)
	total := 0

	for _, id := range ids {
		book := &models.Book{}
		err := svc.db.NewSelect().
			Model(book).
			Relation("Bundle").
			Relation("Author").
			Relation("Series").
			Where("b.id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				res.addf("book %d is missing from the index", id)
				continue
			}
			return nil, 0, errors.WithStack(err)
		}
		if book.Bundle == nil {
			res.addf("book %d is missing from the index", id)
			continue
		}

		total++
		group, ok := byName[book.Bundle.Filename]
		if !ok {
			group = &bundleBooks{filename: book.Bundle.Filename}
			byName[group.filename] = group
			groups = append(groups, group)
		}
		group.books = append(group.books, book)
	}

	return groups, total, nil
}

type extraction struct {
	opts        Options
	res         *Result
	total       int
	done        int
	createdDirs map[string]struct{}
	log         logger.Logger
}

func (x *extraction) advance() {
	x.done++
	if x.opts.Progress != nil {
		x.opts.Progress(float64(x.done) / float64(x.total))
	}
}

func (x *extraction) extractBundle(ctx context.Context, group *bundleBooks) error {
	path := filepath.Join(x.opts.LibraryDir, group.filename)

	zr, err := openBundle(path)
	if err != nil {
		x.res.Messages = append(x.res.Messages, err.Error())
		for range group.books {
			x.advance()
		}
		return nil
	}
	defer zr.Close()

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	missing := 0
	for _, book := range group.books {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}

		entry, ok := entries[book.ArchiveEntryName()]
		switch {
		case !ok:
			missing++
		case entry.UncompressedSize64 == 0:
			x.res.addf("file %q in bundle %q is empty", book.ArchiveEntryName(), path)
		default:
			dest, err := x.writeBook(book, entry)
			if err != nil {
				x.res.addf("failed to extract %q from bundle %q: %s", book.ArchiveEntryName(), path, err)
				break
			}
			x.res.Files = append(x.res.Files, dest)
			x.log.Info("extracted book", logger.Data{"book_id": book.ID, "path": dest})
		}
		x.advance()
	}

	if missing > 0 {
		x.res.addf("%d of %d books not found in bundle %q", missing, len(group.books), path)
	}
	return nil
}

func openBundle(path string) (*zip.ReadCloser, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Errorf("bundle %q not found", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.Errorf("failed to read bundle %q: %s", path, err)
	}
	if !isZip(mtype) {
		return nil, errors.Errorf("bundle %q is not a zip archive (%s)", path, mtype.String())
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Errorf("failed to open bundle %q: %s", path, err)
	}
	return zr, nil
}

func isZip(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is(zipMimeType) {
			return true
		}
	}
	return false
}

// writeBook copies entry into the destination and returns the path written.
func (x *extraction) writeBook(book *models.Book, entry *zip.File) (string, error) {
	subdir, base := x.opts.Template.FileName(fileutils.NameOptions{
		Filename:     book.Filename,
		Title:        book.Title,
		SeriesTitle:  book.SeriesTitle(),
		SeriesNumber: book.SeriesNumber,
		AuthorName:   book.AuthorName(),
	})

	// The id keeps names unique however aggressively the template truncates.
	filename := fileutils.SanitizeFilename(fmt.Sprintf("%d %s.%s", book.ID, base, book.FileType))
	dir := filepath.Join(x.opts.DestDir, fileutils.SanitizeDirname(subdir))

	if _, ok := x.createdDirs[dir]; !ok {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.WithStack(err)
		}
		x.createdDirs[dir] = struct{}{}
	}

	rc, err := entry.Open()
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer rc.Close()

	dest := filepath.Join(dir, filename)
	if err := fileutils.WriteFile(dest, rc); err != nil {
		return "", err
	}

	if x.opts.PackToZip {
		return fileutils.PackToZip(dest)
	}
	return dest, nil
}

func (r *Result) addf(format string, args ...interface{}) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
