package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shishobooks/inpxlib/pkg/authors"
	"github.com/shishobooks/inpxlib/pkg/binder"
	"github.com/shishobooks/inpxlib/pkg/books"
	"github.com/shishobooks/inpxlib/pkg/config"
	"github.com/shishobooks/inpxlib/pkg/errcodes"
	"github.com/shishobooks/inpxlib/pkg/extract"
	"github.com/shishobooks/inpxlib/pkg/favorites"
	"github.com/shishobooks/inpxlib/pkg/genres"
	"github.com/shishobooks/inpxlib/pkg/importer"
	"github.com/shishobooks/inpxlib/pkg/series"
	"github.com/shishobooks/inpxlib/pkg/version"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())

	health.RegisterRoutes(e)
	e.GET("/version", func(c echo.Context) error {
		return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"version": version.Version}))
	})

	authors.RegisterRoutesWithGroup(e.Group("/authors"), db)
	series.RegisterRoutesWithGroup(e.Group("/series"), db)
	books.RegisterRoutesWithGroup(e.Group("/books"), db)
	genres.RegisterRoutesWithGroup(e.Group("/genres"), db)
	favorites.RegisterRoutesWithGroup(e.Group("/favorites"), db)

	// Imports rebuild the library tables that extraction reads from.
	exclusive := &sync.Mutex{}
	importer.RegisterRoutesWithGroup(e.Group("/import"), db, cfg, exclusive)
	extract.RegisterRoutesWithGroup(e.Group("/extract"), db, cfg, exclusive)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
