package models

import (
	"time"

	"github.com/uptrace/bun"
)

// FavoriteAuthor references authors by name, not id, since author ids are
// reassigned on every import.
type FavoriteAuthor struct {
	bun.BaseModel `bun:"table:favorite_authors,alias:fa"`

	Name      string    `bun:",pk" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoriteSeries struct {
	bun.BaseModel `bun:"table:favorite_series,alias:fs"`

	Title     string    `bun:",pk" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
