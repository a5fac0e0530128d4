package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ImportRun struct {
	bun.BaseModel `bun:"table:import_runs,alias:ir"`

	ID             string    `bun:",pk" json:"id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	InpxFilePath   string    `json:"inpx_file_path"`
	Languages      string    `json:"languages"`
	RecordsTotal   int       `json:"records_total"`
	RecordsSkipped int       `json:"records_skipped"`
	BooksTotal     int       `json:"books_total"`
	BooksNew       int       `json:"books_new"`
	BooksDeleted   int       `json:"books_deleted"`
	AuthorsTotal   int       `json:"authors_total"`
	AuthorsNew     int       `json:"authors_new"`
	AuthorsDeleted int       `json:"authors_deleted"`
}

func (r *ImportRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
