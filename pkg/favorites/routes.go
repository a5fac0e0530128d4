package favorites

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		favoriteService: NewService(db),
	}

	g.GET("/authors", h.listAuthors)
	g.POST("/authors", h.addAuthor)
	g.DELETE("/authors/:name", h.removeAuthor)
	g.GET("/series", h.listSeries)
	g.POST("/series", h.addSeries)
	g.DELETE("/series/:title", h.removeSeries)
}
