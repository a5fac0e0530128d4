package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	MetaKeySchemaVersion = "schema_version"
	MetaKeyInpxFilePath  = "inpx_file_path"
	MetaKeyInpxModTime   = "inpx_mod_time"
)

// LibraryMeta is a durable key/value row that survives library resets.
type LibraryMeta struct {
	bun.BaseModel `bun:"table:library_meta,alias:lm"`

	Key       string    `bun:",pk" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
