package fileutils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxFieldLength is the number of characters a single metadata field may
	// take up in a generated name.
	MaxFieldLength = 64
	// Ellipsis marks a truncated field.
	Ellipsis = "…"
)

// NameOptions holds the book metadata a Template builds names from.
type NameOptions struct {
	// Filename is the original file name without extension.
	Filename     string
	Title        string
	SeriesTitle  string
	SeriesNumber int
	AuthorName   string
}

// Template derives the destination of an extracted book.
type Template interface {
	// Name is the stable identifier stored in configuration.
	Name() string
	Description() string
	// FileName returns the subdirectory (possibly empty) and the base file
	// name without extension.
	FileName(opts NameOptions) (subdir, base string)
}

type originalTemplate struct{}

func (originalTemplate) Name() string        { return "filename" }
func (originalTemplate) Description() string { return "Original file name" }

func (originalTemplate) FileName(opts NameOptions) (string, string) {
	return "", opts.Filename
}

type titleSeriesTemplate struct{}

func (titleSeriesTemplate) Name() string        { return "title-series" }
func (titleSeriesTemplate) Description() string { return "Title (Series - number)" }

func (titleSeriesTemplate) FileName(opts NameOptions) (string, string) {
	return "", titleSeries(opts)
}

type authorDirTitleSeriesTemplate struct{}

func (authorDirTitleSeriesTemplate) Name() string { return "authordir-title-series" }
func (authorDirTitleSeriesTemplate) Description() string {
	return "Author/Title (Series - number)"
}

func (authorDirTitleSeriesTemplate) FileName(opts NameOptions) (string, string) {
	return TruncateAuthorName(opts.AuthorName), titleSeries(opts)
}

func titleSeries(opts NameOptions) string {
	name := TruncateString(opts.Title)
	if opts.SeriesTitle == "" {
		return name
	}
	series := TruncateString(opts.SeriesTitle)
	if opts.SeriesNumber > 0 {
		series = fmt.Sprintf("%s - %d", series, opts.SeriesNumber)
	}
	return fmt.Sprintf("%s (%s)", name, series)
}

var templates = []Template{
	originalTemplate{},
	titleSeriesTemplate{},
	authorDirTitleSeriesTemplate{},
}

// DefaultTemplate keeps the original file name.
var DefaultTemplate Template = originalTemplate{}

// Templates returns every available template.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// TemplateByName looks up a template by its Name.
func TemplateByName(name string) (Template, bool) {
	for _, t := range templates {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// TemplateNames returns the names of every available template.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name())
	}
	return names
}

// TruncateString shortens s to MaxFieldLength characters, the last of which
// is Ellipsis.
func TruncateString(s string) string {
	if utf8.RuneCountInString(s) <= MaxFieldLength {
		return s
	}
	return string([]rune(s)[:MaxFieldLength-1]) + Ellipsis
}

// TruncateAuthorName shortens a comma-joined author list. Authors are added
// until the list exceeds MaxFieldLength characters, at which point it's cut
// and the number of authors left out is appended.
func TruncateAuthorName(name string) string {
	authors := strings.Split(name, ",")
	for i := range authors {
		authors[i] = strings.TrimSpace(authors[i])
	}

	var sb strings.Builder
	used := 0
	for _, author := range authors {
		used++
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(author)

		if utf8.RuneCountInString(sb.String()) > MaxFieldLength {
			cut := string([]rune(sb.String())[:MaxFieldLength])
			sb.Reset()
			sb.WriteString(cut)
			sb.WriteString(Ellipsis)
			break
		}
	}

	if used < len(authors) {
		fmt.Fprintf(&sb, " and %d more", len(authors)-used)
	}
	return sb.String()
}
