// Package testgen generates INPX indexes, book bundles and databases for
// tests.
package testgen

import (
	"archive/zip"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shishobooks/inpxlib/pkg/database"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// IndexModTime is the modification time given to every generated catalog
// file. Records without a valid date fall back to it.
var IndexModTime = time.Date(2020, time.March, 14, 15, 9, 26, 0, time.UTC)

// Record describes one catalog line. Zero values produce a valid record in
// Russian with an fb2 file named after the library id.
type Record struct {
	Author       string
	Genre        string
	Title        string
	Series       string
	SeriesNumber string
	File         string
	Size         string
	LibID        string
	Deleted      bool
	Ext          string
	Date         string
	Language     string
	Keywords     string
}

// Line renders r as a CRLF-terminated catalog line.
func (r Record) Line() string {
	file := r.File
	if file == "" {
		file = r.LibID
	}
	ext := r.Ext
	if ext == "" {
		ext = "fb2"
	}
	lang := r.Language
	if lang == "" {
		lang = "ru"
	}
	size := r.Size
	if size == "" {
		size = "1024"
	}
	deleted := "0"
	if r.Deleted {
		deleted = "1"
	}
	fields := []string{
		r.Author, r.Genre, r.Title, r.Series, r.SeriesNumber, file, size,
		r.LibID, deleted, ext, r.Date, lang, r.Keywords,
	}
	return strings.Join(fields, "\x04") + "\r\n"
}

// IndexFile is a catalog file inside a generated INPX archive. When Raw is
// set it is written as is and Records is ignored.
type IndexFile struct {
	Name    string
	Records []Record
	Raw     string
}

// GenerateINPX writes an INPX archive with the given catalog files and
// returns its path.
func GenerateINPX(t *testing.T, dir, filename string, files ...IndexFile) string {
	t.Helper()

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		content := f.Raw
		if content == "" {
			var sb strings.Builder
			for _, rec := range f.Records {
				sb.WriteString(rec.Line())
			}
			content = sb.String()
		}
		entries = append(entries, Entry{Name: f.Name, Content: []byte(content)})
	}
	return GenerateZip(t, dir, filename, entries...)
}

// Entry is a file stored in a generated zip archive.
type Entry struct {
	Name    string
	Content []byte
}

// BookEntry returns a bundle entry for the book with the given library id
// and extension.
func BookEntry(libID int64, ext string, content string) Entry {
	return Entry{Name: strconv.FormatInt(libID, 10) + "." + ext, Content: []byte(content)}
}

// GenerateZip writes a zip archive holding entries and returns its path.
func GenerateZip(t *testing.T, dir, filename string, entries ...Entry) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: IndexModTime,
		})
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", e.Name, err)
		}
		if _, err := w.Write(e.Content); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish zip file: %v", err)
	}

	return path
}

// TempDir creates a temporary directory that is removed when the test
// completes.
func TempDir(t *testing.T, pattern string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

// NewDB returns an in-memory database with all tables created.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// Every connection to :memory: gets its own database.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := database.Prepare(context.Background(), db); err != nil {
		t.Fatalf("failed to prepare database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return db
}
