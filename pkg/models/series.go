package models

import (
	"github.com/uptrace/bun"
)

type Series struct {
	bun.BaseModel `bun:"table:series,alias:s"`

	ID        int    `bun:",pk" json:"id"`
	Alpha     string `json:"alpha"`
	Title     string `json:"title"`
	BookCount int    `bun:",scanonly" json:"book_count"`
}

type SeriesAlpha struct {
	bun.BaseModel `bun:"table:series_alphas,alias:sa"`

	Alpha string `bun:",pk" json:"alpha"`
}
