package books

import (
	"context"
	"testing"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/inpxlib/internal/testgen"
	"github.com/shishobooks/inpxlib/pkg/errcodes"
	"github.com/shishobooks/inpxlib/pkg/favorites"
	"github.com/shishobooks/inpxlib/pkg/importer"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setup(t *testing.T) (*Service, *bun.DB) {
	t.Helper()

	db := testgen.NewDB(t)
	path := testgen.LibraryIndex(t, testgen.TempDir(t, "books-*"))
	_, err := importer.NewService(db).Import(context.Background(), importer.ImportOptions{
		Path:      path,
		Languages: []string{"ru", "en"},
	})
	require.NoError(t, err)

	return NewService(db), db
}

func ids(books []*models.Book) []int64 {
	out := make([]int64, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestListBooks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, db := setup(t)

	favs := favorites.NewService(db)
	_, err := favs.AddAuthor(ctx, "Толстой Лев")
	require.NoError(t, err)
	_, err = favs.AddSeries(ctx, "НИИЧАВО")
	require.NoError(t, err)

	tests := []struct {
		name  string
		opts  ListBooksOptions
		want  []int64
		total int
	}{
		{
			name:  "ordered by author, series, series number and title",
			want:  []int64{testgen.BookRoadside, testgen.BookYolki, testgen.BookPicnic, testgen.BookMonday, testgen.BookTroika, testgen.BookKarenina, testgen.BookWarPeace},
			total: 7,
		},
		{
			name:  "paginated",
			opts:  ListBooksOptions{Limit: pointerutil.Int(2), Offset: pointerutil.Int(1)},
			want:  []int64{testgen.BookYolki, testgen.BookPicnic},
			total: 7,
		},
		{
			name:  "by author",
			opts:  ListBooksOptions{AuthorID: pointerutil.Int(2)},
			want:  []int64{testgen.BookKarenina, testgen.BookWarPeace},
			total: 2,
		},
		{
			name:  "by series",
			opts:  ListBooksOptions{SeriesID: pointerutil.Int(1)},
			want:  []int64{testgen.BookMonday, testgen.BookTroika},
			total: 2,
		},
		{
			name:  "by genre",
			opts:  ListBooksOptions{GenreID: pointerutil.Int(3)},
			want:  []int64{testgen.BookRoadside, testgen.BookPicnic},
			total: 2,
		},
		{
			name:  "by language",
			opts:  ListBooksOptions{Language: pointerutil.String("en")},
			want:  []int64{testgen.BookRoadside},
			total: 1,
		},
		{
			name:  "added since",
			opts:  ListBooksOptions{DateFrom: pointerutil.String("2010-01-01")},
			want:  []int64{testgen.BookRoadside, testgen.BookYolki, testgen.BookKarenina},
			total: 3,
		},
		{
			name:  "favorite authors",
			opts:  ListBooksOptions{Favorites: pointerutil.String(FavoritesAuthors)},
			want:  []int64{testgen.BookKarenina, testgen.BookWarPeace},
			total: 2,
		},
		{
			name:  "favorite series",
			opts:  ListBooksOptions{Favorites: pointerutil.String(FavoritesSeries)},
			want:  []int64{testgen.BookMonday, testgen.BookTroika},
			total: 2,
		},
		{
			name:  "all favorites",
			opts:  ListBooksOptions{Favorites: pointerutil.String(FavoritesAll)},
			want:  []int64{testgen.BookMonday, testgen.BookTroika, testgen.BookKarenina, testgen.BookWarPeace},
			total: 4,
		},
		{
			name:  "all favorites with another filter",
			opts:  ListBooksOptions{Favorites: pointerutil.String(FavoritesAll), AuthorID: pointerutil.Int(1)},
			want:  []int64{testgen.BookMonday, testgen.BookTroika},
			total: 2,
		},
		{
			name:  "search title ignores case",
			opts:  ListBooksOptions{Search: pointerutil.String("ПИКНИК")},
			want:  []int64{testgen.BookPicnic},
			total: 1,
		},
		{
			name:  "search author",
			opts:  ListBooksOptions{Search: pointerutil.String("толстой")},
			want:  []int64{testgen.BookKarenina, testgen.BookWarPeace},
			total: 2,
		},
		{
			name:  "search series",
			opts:  ListBooksOptions{Search: pointerutil.String("ниичаво")},
			want:  []int64{testgen.BookMonday, testgen.BookTroika},
			total: 2,
		},
		{
			name:  "search paginated",
			opts:  ListBooksOptions{Search: pointerutil.String("picnic"), Limit: pointerutil.Int(1)},
			want:  []int64{testgen.BookRoadside},
			total: 1,
		},
		{
			name:  "search paginated past the end",
			opts:  ListBooksOptions{Search: pointerutil.String("а"), Offset: pointerutil.Int(100)},
			want:  []int64{},
			total: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, total, err := svc.ListBooks(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(books))
			assert.Equal(t, tt.total, total)
		})
	}
}

func TestRetrieveBook(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := setup(t)

	book, err := svc.RetrieveBook(ctx, testgen.BookMonday)
	require.NoError(t, err)
	assert.Equal(t, "Понедельник начинается в субботу", book.Title)
	assert.Equal(t, testgen.LibraryAuthor, book.AuthorName())
	assert.Equal(t, "НИИЧАВО", book.SeriesTitle())
	assert.Equal(t, 1, book.SeriesNumber)
	assert.EqualValues(t, 2048, book.FileSize)
	assert.Equal(t, "1.fb2", book.ArchiveEntryName())
	require.NotNil(t, book.Bundle)
	assert.Equal(t, "fb2-000001-000010.zip", book.Bundle.Filename)

	book, err = svc.RetrieveBook(ctx, testgen.BookPicnic)
	require.NoError(t, err)
	assert.Nil(t, book.SeriesID)
	assert.Equal(t, "", book.SeriesTitle())
	assert.Equal(t, "зона", book.Keywords)

	_, err = svc.RetrieveBook(ctx, testgen.BookRemoved)
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
	_, err = svc.RetrieveBook(ctx, testgen.BookGerman)
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestListBookGenres(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := setup(t)

	genres, err := svc.ListBookGenres(ctx, testgen.BookMonday)
	require.NoError(t, err)
	assert.Equal(t, []string{"sf_humor", "sf_social"}, genres)

	genres, err = svc.ListBookGenres(ctx, testgen.BookRemoved)
	require.NoError(t, err)
	assert.Empty(t, genres)
}
