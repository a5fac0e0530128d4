package testgen

import "testing"

// Library ids of the books in LibraryIndex.
const (
	BookMonday   int64 = 1
	BookTroika   int64 = 2
	BookPicnic   int64 = 3
	BookWarPeace int64 = 4
	BookKarenina int64 = 5
	BookYolki    int64 = 11
	BookRoadside int64 = 12
)

// BookRemoved is deleted and BookGerman is in a language that isn't imported,
// so neither ends up in the library.
const (
	BookRemoved int64 = 13
	BookGerman  int64 = 14
)

// LibraryAuthor is the normalized name of the co-authors of the first three
// books.
const LibraryAuthor = "Стругацкий Аркадий, Стругацкий Борис"

// LibraryIndex writes a small INPX index with two catalog files and returns
// its path. Imported with the languages "ru" and "en" it yields four
// authors, three series and six genres. The book ids are fixed, author,
// series and genre ids follow record order.
func LibraryIndex(t *testing.T, dir string) string {
	t.Helper()

	strugatsky := "Стругацкий,Аркадий,:Стругацкий,Борис,:"
	return GenerateINPX(t, dir, "library.inpx",
		IndexFile{Name: "fb2-000001-000010.inp", Records: []Record{
			{Author: strugatsky, Genre: "sf_social:sf_humor", Title: "Понедельник начинается в субботу", Series: "НИИЧАВО", SeriesNumber: "1", LibID: "1", Date: "2007-01-01", Size: "2048"},
			{Author: strugatsky, Genre: "sf_social", Title: "Сказка о Тройке", Series: "НИИЧАВО", SeriesNumber: "2", LibID: "2", Date: "2007-02-01"},
			{Author: strugatsky, Genre: "sf", Title: "Пикник на обочине", LibID: "3", Date: "2008-01-01", Keywords: "Зона"},
			{Author: "Толстой,Лев", Genre: "prose_classic", Title: "Война и мир", LibID: "4", Date: "2009-01-01"},
			{Author: "Толстой,Лев", Genre: "prose_classic:prose_history", Title: "Анна Каренина", LibID: "5", Date: "2010-01-01"},
		}},
		IndexFile{Name: "fb2-000011-000020.inp", Records: []Record{
			{Author: "Ёлкин,Пётр", Genre: "child_tale", Title: "Ёлки-палки", Series: "Ёлочные", SeriesNumber: "1", LibID: "11", Date: "2011-01-01"},
			{Author: "Doe,John", Genre: "sf", Title: "Roadside Picnic", Series: "Translations", SeriesNumber: "3", LibID: "12", Date: "2012-01-01", Language: "en", Ext: "epub"},
			{Author: "Doe,John", Title: "Removed", LibID: "13", Deleted: true},
			{Author: "Doe,John", Title: "Untranslated", LibID: "14", Language: "de"},
		}},
	)
}
