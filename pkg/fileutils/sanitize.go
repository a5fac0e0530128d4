package fileutils

import (
	"path/filepath"
	"strings"
)

// invalidFilenameChars can't appear in file names on at least one of the
// common filesystems.
const invalidFilenameChars = `<>:"/\|?*`

// SanitizeFilename replaces control characters and characters that aren't
// allowed in file names with "_". Every other character is left as is.
func SanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		if r < ' ' || strings.ContainsRune(invalidFilenameChars, r) {
			return '_'
		}
		return r
	}, s)
}

// SanitizeDirname sanitizes every "/"-separated component of s and joins
// them back with the OS separator. "." and ".." components are replaced so
// the result can't point outside of the directory it is joined to.
func SanitizeDirname(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "/")
	for i, part := range parts {
		switch part {
		case ".", "..":
			parts[i] = strings.Repeat("_", len(part))
		default:
			parts[i] = SanitizeFilename(part)
		}
	}
	return filepath.Join(parts...)
}
