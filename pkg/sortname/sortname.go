// Package sortname provides the helpers used to bucket and deduplicate
// author names and series titles.
package sortname

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// NoLetter is the bucket for names without any letter or digit.
const NoLetter = "#"

// letterFolds maps letters that are collated together with their base form.
var letterFolds = map[rune]rune{
	'Ё': 'Е',
}

// FirstLetter returns the first letter or digit of name in upper case, or
// NoLetter if there isn't one.
func FirstLetter(name string) string {
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		r = unicode.ToUpper(r)
		if folded, ok := letterFolds[r]; ok {
			r = folded
		}
		return string(r)
	}
	return NoLetter
}

// Folder produces case-insensitive lookup keys. It isn't safe for concurrent
// use.
type Folder struct {
	caser cases.Caser
}

func NewFolder() *Folder {
	return &Folder{caser: cases.Fold()}
}

// Key returns the case-folded form of s.
func (f *Folder) Key(s string) string {
	return f.caser.String(s)
}

// Contains reports whether substr is within s, ignoring case.
func (f *Folder) Contains(s, substr string) bool {
	return strings.Contains(f.Key(s), f.Key(substr))
}

// HasPrefix reports whether s begins with prefix, ignoring case.
func (f *Folder) HasPrefix(s, prefix string) bool {
	return strings.HasPrefix(f.Key(s), f.Key(prefix))
}
