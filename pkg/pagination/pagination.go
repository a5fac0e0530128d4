// Package pagination applies limit and offset to lists that are filtered
// after they are read from the database.
package pagination

// Slice returns the page of items selected by limit and offset. Nil values
// mean no limit and no offset.
func Slice[T any](items []T, limit, offset *int) []T {
	if offset != nil && *offset > 0 {
		if *offset >= len(items) {
			return []T{}
		}
		items = items[*offset:]
	}
	if limit != nil && *limit >= 0 && *limit < len(items) {
		items = items[:*limit]
	}
	return items
}
