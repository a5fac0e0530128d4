package books

type ListBooksQuery struct {
	Limit     int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=500"`
	Offset    int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	AuthorID  *int    `query:"author_id" json:"author_id,omitempty" validate:"omitempty,min=1"`
	SeriesID  *int    `query:"series_id" json:"series_id,omitempty" validate:"omitempty,min=1"`
	GenreID   *int    `query:"genre_id" json:"genre_id,omitempty" validate:"omitempty,min=1"`
	Favorites *string `query:"favorites" json:"favorites,omitempty" validate:"omitempty,oneof=authors series all"`
	Language  *string `query:"language" json:"language,omitempty" mod:"trim,lcase" validate:"omitempty,max=8"`
	DateFrom  *string `query:"date_from" json:"date_from,omitempty" validate:"omitempty,date"`
	Search    *string `query:"search" json:"search,omitempty" mod:"trim" validate:"omitempty,min=1,max=100"`
}
