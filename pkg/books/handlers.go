package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/errcodes"
	"github.com/shishobooks/inpxlib/pkg/models"
)

type handler struct {
	bookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.bookService.ListBooks(ctx, ListBooksOptions{
		Limit:     &params.Limit,
		Offset:    &params.Offset,
		AuthorID:  params.AuthorID,
		SeriesID:  params.SeriesID,
		GenreID:   params.GenreID,
		Favorites: params.Favorites,
		Language:  params.Language,
		DateFrom:  params.DateFrom,
		Search:    params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"books": books,
		"total": total,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}
	genres, err := h.bookService.ListBookGenres(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	response := struct {
		*models.Book
		Genres []string `json:"genres"`
	}{book, genres}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}
