package models

import (
	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID        int    `bun:",pk" json:"id"`
	Alpha     string `json:"alpha"`
	Name      string `json:"name"`
	BookCount int    `bun:",scanonly" json:"book_count"`
}

type AuthorAlpha struct {
	bun.BaseModel `bun:"table:author_alphas,alias:aa"`

	Alpha string `bun:",pk" json:"alpha"`
}
