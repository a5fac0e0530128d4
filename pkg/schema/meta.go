package schema

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/models"
	"github.com/uptrace/bun"
)

// GetMeta returns the stored value for key and whether it was present.
func GetMeta(ctx context.Context, db bun.IDB, key string) (string, bool, error) {
	meta := &models.LibraryMeta{}
	err := db.NewSelect().
		Model(meta).
		Where("lm.key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.WithStack(err)
	}
	return meta.Value, true, nil
}

func SetMeta(ctx context.Context, db bun.IDB, key, value string) error {
	meta := &models.LibraryMeta{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	_, err := db.NewInsert().
		Model(meta).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return errors.WithStack(err)
}

// RecordImport stores the schema version and the index file's modification
// time so that later runs can tell whether the database is stale.
func RecordImport(ctx context.Context, db bun.IDB, inpxPath string, modTime time.Time) error {
	values := map[string]string{
		models.MetaKeySchemaVersion: strconv.Itoa(Version),
		models.MetaKeyInpxFilePath:  inpxPath,
		models.MetaKeyInpxModTime:   strconv.FormatInt(modTime.Unix(), 10),
	}
	for k, v := range values {
		if err := SetMeta(ctx, db, k, v); err != nil {
			return err
		}
	}
	return nil
}

const (
	StaleReasonNeverImported  = "library has never been imported"
	StaleReasonSchemaVersion  = "database schema version differs from the current one"
	StaleReasonIndexChanged   = "index file has changed since the last import"
	StaleReasonIndexPathMoved = "index file path differs from the one last imported"
)

// Staleness describes whether the library has to be re-imported.
type Staleness struct {
	Stale         bool   `json:"stale"`
	Reason        string `json:"reason,omitempty"`
	StoredVersion int    `json:"stored_version,omitempty"`
}

// CheckStale compares the stored import metadata against the current schema
// version and the index file on disk. A missing index file is not treated as
// stale since there would be nothing to import.
func CheckStale(ctx context.Context, db bun.IDB, inpxPath string) (*Staleness, error) {
	versionStr, ok, err := GetMeta(ctx, db, models.MetaKeySchemaVersion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Staleness{Stale: true, Reason: StaleReasonNeverImported}, nil
	}
	version, err := strconv.Atoi(versionStr)
	if err != nil || version != Version {
		return &Staleness{Stale: true, Reason: StaleReasonSchemaVersion, StoredVersion: version}, nil
	}

	if inpxPath == "" {
		return &Staleness{StoredVersion: version}, nil
	}
	info, err := os.Stat(inpxPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Staleness{StoredVersion: version}, nil
		}
		return nil, errors.WithStack(err)
	}

	storedPath, _, err := GetMeta(ctx, db, models.MetaKeyInpxFilePath)
	if err != nil {
		return nil, err
	}
	if storedPath != inpxPath {
		return &Staleness{Stale: true, Reason: StaleReasonIndexPathMoved, StoredVersion: version}, nil
	}

	storedModTime, _, err := GetMeta(ctx, db, models.MetaKeyInpxModTime)
	if err != nil {
		return nil, err
	}
	if storedModTime != strconv.FormatInt(info.ModTime().Unix(), 10) {
		return &Staleness{Stale: true, Reason: StaleReasonIndexChanged, StoredVersion: version}, nil
	}

	return &Staleness{StoredVersion: version}, nil
}
