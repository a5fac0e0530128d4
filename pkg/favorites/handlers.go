package favorites

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/errcodes"
)

type handler struct {
	favoriteService *Service
}

func (h *handler) listAuthors(c echo.Context) error {
	favs, err := h.favoriteService.ListAuthors(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"authors": favs}))
}

func (h *handler) addAuthor(c echo.Context) error {
	params := AddAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	fav, err := h.favoriteService.AddAuthor(c.Request().Context(), params.Name)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusCreated, fav))
}

func (h *handler) removeAuthor(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return errcodes.NotFound("Favorite author")
	}

	if err := h.favoriteService.RemoveAuthor(c.Request().Context(), name); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) listSeries(c echo.Context) error {
	favs, err := h.favoriteService.ListSeries(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"series": favs}))
}

func (h *handler) addSeries(c echo.Context) error {
	params := AddSeriesPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	fav, err := h.favoriteService.AddSeries(c.Request().Context(), params.Title)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusCreated, fav))
}

func (h *handler) removeSeries(c echo.Context) error {
	title, err := url.PathUnescape(c.Param("title"))
	if err != nil {
		return errcodes.NotFound("Favorite series")
	}

	if err := h.favoriteService.RemoveSeries(c.Request().Context(), title); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
