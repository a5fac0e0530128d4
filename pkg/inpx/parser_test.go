package inpx

import (
	"context"
	"testing"
	"time"

	"github.com/shishobooks/inpxlib/internal/testgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	records []*Record
}

func (c *collector) HandleRecord(_ context.Context, rec *Record) error {
	c.records = append(c.records, rec)
	return nil
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := testgen.TempDir(t, "inpx-*")
	path := testgen.GenerateINPX(t, dir, "library.inpx", testgen.IndexFile{
		Name: "fb2-000001-000100.inp",
		Records: []testgen.Record{
			{
				Author:       "Золя,Эмиль,:Толстой,Лев,Николаевич:",
				Genre:        "Prose_Classic:prose_history::",
				Title:        "  Жерминаль ",
				Series:       " Ругон-Маккары ",
				SeriesNumber: "13",
				File:         "12345",
				Size:         "523411",
				LibID:        "12345",
				Date:         "2009-11-03",
				Language:     "RU",
				Keywords:     " Шахтёры, Стачка ",
			},
		},
	})

	c := &collector{}
	err := ParseFile(context.Background(), path, c, nil)
	require.NoError(t, err)
	require.Len(t, c.records, 1)

	rec := c.records[0]
	assert.Equal(t, "Золя Эмиль, Толстой Лев Николаевич", rec.Author)
	assert.Equal(t, []string{"prose_classic", "prose_history"}, rec.Genres)
	assert.Equal(t, "Жерминаль", rec.Title)
	assert.Equal(t, "Ругон-Маккары", rec.Series)
	assert.Equal(t, 13, rec.SeriesNumber)
	assert.Equal(t, "12345", rec.File)
	assert.EqualValues(t, 523411, rec.Size)
	assert.EqualValues(t, 12345, rec.LibID)
	assert.False(t, rec.Deleted)
	assert.Equal(t, "fb2", rec.Ext)
	assert.Equal(t, time.Date(2009, time.November, 3, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, "ru", rec.Language)
	assert.Equal(t, "шахтёры, стачка", rec.Keywords)
	assert.Equal(t, "fb2-000001-000100.zip", rec.Bundle)
}

func TestParseFile_Fallbacks(t *testing.T) {
	t.Parallel()

	dir := testgen.TempDir(t, "inpx-*")
	path := testgen.GenerateINPX(t, dir, "library.inpx", testgen.IndexFile{
		Name: "books.inp",
		Records: []testgen.Record{
			{Author: ",,:", Title: "Без автора", LibID: "1", SeriesNumber: "x", Size: "12kb", Date: "garbage", Deleted: true},
		},
	})

	c := &collector{}
	require.NoError(t, ParseFile(context.Background(), path, c, nil))
	require.Len(t, c.records, 1)

	rec := c.records[0]
	assert.Equal(t, UnknownAuthor, rec.Author)
	assert.Empty(t, rec.Genres)
	assert.Zero(t, rec.SeriesNumber)
	assert.Zero(t, rec.Size)
	assert.True(t, rec.Deleted)
	assert.Equal(t, time.Date(2020, time.March, 14, 0, 0, 0, 0, time.UTC), rec.Date)
}

func TestParseFile_SortedBundlesAndProgress(t *testing.T) {
	t.Parallel()

	dir := testgen.TempDir(t, "inpx-*")
	path := testgen.GenerateINPX(t, dir, "library.inpx",
		testgen.IndexFile{Name: "b.inp", Records: []testgen.Record{{Author: "B", Title: "second", LibID: "2"}}},
		testgen.IndexFile{Name: "collection.info", Raw: "not a catalog"},
		testgen.IndexFile{Name: "a.INP", Records: []testgen.Record{{Author: "A", Title: "first", LibID: "1"}}},
		testgen.IndexFile{Name: "c.inp", Raw: ""},
	)

	c := &collector{}
	var fractions []float64
	err := ParseFile(context.Background(), path, c, func(f float64) {
		fractions = append(fractions, f)
	})
	require.NoError(t, err)

	require.Len(t, c.records, 2)
	assert.Equal(t, "a.zip", c.records[0].Bundle)
	assert.Equal(t, "first", c.records[0].Title)
	assert.Equal(t, "b.zip", c.records[1].Bundle)
	assert.Equal(t, []float64{0.5, 1}, fractions)
}

func TestParseFile_BlankLinesAndInvalidUTF8(t *testing.T) {
	t.Parallel()

	good := testgen.Record{Author: "Иванов,Иван", Title: "Книга\xff", LibID: "7"}
	dir := testgen.TempDir(t, "inpx-*")
	path := testgen.GenerateINPX(t, dir, "library.inpx", testgen.IndexFile{
		Name: "x.inp",
		Raw:  "\uFEFF" + good.Line() + "\r\n",
	})

	c := &collector{}
	require.NoError(t, ParseFile(context.Background(), path, c, nil))
	require.Len(t, c.records, 1)
	assert.Equal(t, "Иванов Иван", c.records[0].Author)
	assert.Equal(t, "Книга\uFFFD", c.records[0].Title)
}

func TestParseFile_InvalidLibID(t *testing.T) {
	t.Parallel()

	dir := testgen.TempDir(t, "inpx-*")
	path := testgen.GenerateINPX(t, dir, "library.inpx", testgen.IndexFile{
		Name: "bad.inp",
		Records: []testgen.Record{
			{Author: "A", Title: "ok", LibID: "1"},
			{Author: "B", Title: "broken", LibID: "-5"},
		},
	})

	c := &collector{}
	err := ParseFile(context.Background(), path, c, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record #2")
	assert.Contains(t, err.Error(), `"bad.inp"`)
	assert.Contains(t, err.Error(), "B;;broken")
	assert.Contains(t, err.Error(), path)
	assert.Len(t, c.records, 1)
}

func TestParseFile_TooFewFields(t *testing.T) {
	t.Parallel()

	dir := testgen.TempDir(t, "inpx-*")
	path := testgen.GenerateINPX(t, dir, "library.inpx", testgen.IndexFile{
		Name: "short.inp",
		Raw:  "A\x04genre\x04title\r\n",
	})

	err := ParseFile(context.Background(), path, &collector{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected at least 13 fields")
}

func TestParseFile_HandlerError(t *testing.T) {
	t.Parallel()

	dir := testgen.TempDir(t, "inpx-*")
	path := testgen.GenerateINPX(t, dir, "library.inpx", testgen.IndexFile{
		Name:    "x.inp",
		Records: []testgen.Record{{Author: "A", Title: "t", LibID: "1"}},
	})

	err := ParseFile(context.Background(), path, HandlerFunc(func(context.Context, *Record) error {
		return assert.AnError
	}), nil)
	require.ErrorIs(t, err, assert.AnError)
}

func TestParseFile_Cancelled(t *testing.T) {
	t.Parallel()

	dir := testgen.TempDir(t, "inpx-*")
	path := testgen.GenerateINPX(t, dir, "library.inpx", testgen.IndexFile{
		Name:    "x.inp",
		Records: []testgen.Record{{Author: "A", Title: "t", LibID: "1"}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &collector{}
	err := ParseFile(ctx, path, c, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.records)
}

func TestParseFile_NotAnArchive(t *testing.T) {
	t.Parallel()

	dir := testgen.TempDir(t, "inpx-*")
	err := ParseFile(context.Background(), dir+"/missing.inpx", &collector{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.inpx")
}

func TestNormalizeAuthorName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		expected string
	}{
		{"Толстой,Лев,Николаевич:", "Толстой Лев Николаевич"},
		{"Стругацкий,Борис,:Стругацкий,Аркадий,:", "Стругацкий Аркадий, Стругацкий Борис"},
		{" Doe , John :", "Doe John"},
		{"", UnknownAuthor},
		{":,:", UnknownAuthor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeAuthorName(tt.raw), tt.raw)
	}
}
