package models

import (
	"github.com/uptrace/bun"
)

// BookDateFormat is the layout of Book.Date.
const BookDateFormat = "2006-01-02"

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	// ID is the library id taken from the index, not generated.
	ID           int64   `bun:",pk" json:"id"`
	AuthorID     int     `json:"author_id"`
	Author       *Author `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	Title        string  `json:"title"`
	SeriesID     *int    `json:"series_id,omitempty"`
	Series       *Series `bun:"rel:belongs-to,join:series_id=id" json:"series,omitempty"`
	SeriesNumber int     `json:"series_number"`
	Filename     string  `json:"filename"`
	FileType     string  `json:"file_type"`
	FileSize     int64   `json:"file_size"`
	Date         string  `json:"date"`
	Language     string  `json:"language"`
	Keywords     string  `json:"keywords"`
	BundleID     int     `json:"bundle_id"`
	Bundle       *Bundle `bun:"rel:belongs-to,join:bundle_id=id" json:"bundle,omitempty"`
}

// ArchiveEntryName is the name of the book's file inside its bundle.
func (b *Book) ArchiveEntryName() string {
	return b.Filename + "." + b.FileType
}

// AuthorName returns the joined author name, or an empty string if the
// relation wasn't loaded.
func (b *Book) AuthorName() string {
	if b.Author == nil {
		return ""
	}
	return b.Author.Name
}

// SeriesTitle returns the series title, or an empty string if the book isn't
// part of a series or the relation wasn't loaded.
func (b *Book) SeriesTitle() string {
	if b.Series == nil {
		return ""
	}
	return b.Series.Title
}
