package models

import (
	"github.com/uptrace/bun"
)

type GenreTag struct {
	bun.BaseModel `bun:"table:genre_tags,alias:gt"`

	ID        int     `bun:",pk" json:"id"`
	Tag       string  `json:"tag"`
	Name      *string `bun:",scanonly" json:"name,omitempty"`
	Category  *string `bun:",scanonly" json:"category,omitempty"`
	BookCount int     `bun:",scanonly" json:"book_count"`
}

// BookGenre has no primary key. Duplicate rows are tolerated.
type BookGenre struct {
	bun.BaseModel `bun:"table:book_genres,alias:bg"`

	GenreID int   `json:"genre_id"`
	BookID  int64 `json:"book_id"`
}

type GenreName struct {
	bun.BaseModel `bun:"table:genre_names,alias:gn"`

	Tag      string `bun:",pk" json:"tag"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
