// Package inpx reads INPX library indexes: zip archives holding one or more
// .inp catalog files made of \x04-delimited records.
package inpx

import (
	"context"
	"time"
)

const (
	// IndexExt is the extension of catalog files inside an INPX archive.
	IndexExt = ".inp"
	// BundleExt is the extension of the book archive a catalog file describes.
	BundleExt = ".zip"
	// FieldSeparator separates the fields of a record.
	FieldSeparator = "\x04"
	// DateLayout is the layout of the DATE field.
	DateLayout = "2006-01-02"
	// UnknownAuthor replaces author fields without any usable name.
	UnknownAuthor = "unknown"
)

// Positions of the fields of a record.
const (
	fieldAuthor = iota
	fieldGenre
	fieldTitle
	fieldSeries
	fieldSeriesNumber
	fieldFile
	fieldSize
	fieldLibID
	fieldDeleted
	fieldExt
	fieldDate
	fieldLanguage
	fieldKeywords

	fieldCount
)

// Record is one normalized catalog entry.
type Record struct {
	// Author is the normalized, possibly multi-author, name.
	Author       string
	Genres       []string
	Title        string
	Series       string
	SeriesNumber int
	File         string
	Size         int64
	LibID        int64
	Deleted      bool
	Ext          string
	Date         time.Time
	Language     string
	Keywords     string
	// Bundle is the file name of the archive holding the book.
	Bundle string
}

// Handler receives parsed records. Returning an error aborts parsing.
type Handler interface {
	HandleRecord(ctx context.Context, rec *Record) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, rec *Record) error

func (f HandlerFunc) HandleRecord(ctx context.Context, rec *Record) error {
	return f(ctx, rec)
}

// ProgressFunc receives the completed fraction in the range [0, 1].
type ProgressFunc func(fraction float64)
