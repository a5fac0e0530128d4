package schema_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/shishobooks/inpxlib/internal/testgen"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/shishobooks/inpxlib/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testgen.NewDB(t)

	_, err := db.NewInsert().Model(&models.Author{ID: 1, Alpha: "Т", Name: "Толстой Лев"}).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&models.FavoriteAuthor{Name: "Толстой Лев", CreatedAt: time.Now()}).Exec(ctx)
	require.NoError(t, err)
	require.NoError(t, schema.SetMeta(ctx, db, "key", "value"))

	require.NoError(t, schema.ResetTables(ctx, db))

	count, err := db.NewSelect().Model((*models.Author)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = db.NewSelect().Model((*models.FavoriteAuthor)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	value, ok, err := schema.GetMeta(ctx, db, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", value)
}

func TestInitTables_KeepsContents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testgen.NewDB(t)

	_, err := db.NewInsert().Model(&models.Bundle{ID: 1, Filename: "a.zip"}).Exec(ctx)
	require.NoError(t, err)
	require.NoError(t, schema.InitTables(ctx, db))

	count, err := db.NewSelect().Model((*models.Bundle)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, schema.TableNames(), 9)
}

func TestMeta(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testgen.NewDB(t)

	_, ok, err := schema.GetMeta(ctx, db, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, schema.SetMeta(ctx, db, "key", "one"))
	require.NoError(t, schema.SetMeta(ctx, db, "key", "two"))
	value, ok, err := schema.GetMeta(ctx, db, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", value)
}

func TestCheckStale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testgen.NewDB(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "library.inpx")
	require.NoError(t, os.WriteFile(path, []byte("index"), 0644))
	modTime := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, modTime, modTime))

	staleness, err := schema.CheckStale(ctx, db, path)
	require.NoError(t, err)
	assert.True(t, staleness.Stale)
	assert.Equal(t, schema.StaleReasonNeverImported, staleness.Reason)

	require.NoError(t, schema.RecordImport(ctx, db, path, modTime))
	staleness, err = schema.CheckStale(ctx, db, path)
	require.NoError(t, err)
	assert.False(t, staleness.Stale)
	assert.Equal(t, schema.Version, staleness.StoredVersion)

	// Without an index file there is nothing to re-import from.
	staleness, err = schema.CheckStale(ctx, db, "")
	require.NoError(t, err)
	assert.False(t, staleness.Stale)
	staleness, err = schema.CheckStale(ctx, db, filepath.Join(dir, "missing.inpx"))
	require.NoError(t, err)
	assert.False(t, staleness.Stale)

	other := filepath.Join(dir, "other.inpx")
	require.NoError(t, os.WriteFile(other, []byte("index"), 0644))
	staleness, err = schema.CheckStale(ctx, db, other)
	require.NoError(t, err)
	assert.True(t, staleness.Stale)
	assert.Equal(t, schema.StaleReasonIndexPathMoved, staleness.Reason)

	changed := modTime.Add(time.Hour)
	require.NoError(t, os.Chtimes(path, changed, changed))
	staleness, err = schema.CheckStale(ctx, db, path)
	require.NoError(t, err)
	assert.True(t, staleness.Stale)
	assert.Equal(t, schema.StaleReasonIndexChanged, staleness.Reason)

	require.NoError(t, schema.SetMeta(ctx, db, models.MetaKeySchemaVersion, strconv.Itoa(schema.Version-1)))
	staleness, err = schema.CheckStale(ctx, db, path)
	require.NoError(t, err)
	assert.True(t, staleness.Stale)
	assert.Equal(t, schema.StaleReasonSchemaVersion, staleness.Reason)
	assert.Equal(t, schema.Version-1, staleness.StoredVersion)
}
