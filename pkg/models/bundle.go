package models

import (
	"github.com/uptrace/bun"
)

// Bundle is an archive holding one or more book files.
type Bundle struct {
	bun.BaseModel `bun:"table:bundles,alias:bu"`

	ID       int    `bun:",pk" json:"id"`
	Filename string `json:"filename"`
}
