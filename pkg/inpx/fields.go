package inpx

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// NormalizeAuthorName turns a raw "Last,First,Middle:Last,First,Middle:" field
// into "Last First Middle, Last First Middle", with the names sorted.
func NormalizeAuthorName(raw string) string {
	var names []string
	for _, group := range strings.Split(raw, ":") {
		var parts []string
		for _, part := range strings.Split(group, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			names = append(names, strings.Join(parts, " "))
		}
	}
	if len(names) == 0 {
		return UnknownAuthor
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// ParseGenres splits a raw "tag1:tag2:" field into lowercase tags.
func ParseGenres(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(strings.ToLower(raw), ":") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ParseDate parses a YYYY-MM-DD field, returning fallback if it isn't valid.
func ParseDate(raw string, fallback time.Time) time.Time {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return d
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseCount returns the value of a numeric field, or 0 when it isn't a
// plain non-negative integer.
func parseCount(raw string) int64 {
	if !isDigits(raw) {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
