package importer

import "github.com/shishobooks/inpxlib/pkg/sortname"

// dictionary hands out surrogate keys for distinct strings within one
// import. Keys start at 1 and are not stable across imports.
type dictionary struct {
	ids    map[string]int
	folder *sortname.Folder
}

// newDictionary returns a dictionary matching keys case-insensitively when
// folder is set and exactly otherwise.
func newDictionary(folder *sortname.Folder) *dictionary {
	return &dictionary{
		ids:    make(map[string]int),
		folder: folder,
	}
}

// resolve returns the key for s, assigning the next one if s hasn't been seen
// yet.
func (d *dictionary) resolve(s string) (id int, created bool) {
	key := s
	if d.folder != nil {
		key = d.folder.Key(s)
	}
	if id, ok := d.ids[key]; ok {
		return id, false
	}
	id = len(d.ids) + 1
	d.ids[key] = id
	return id, true
}

func (d *dictionary) len() int {
	return len(d.ids)
}
