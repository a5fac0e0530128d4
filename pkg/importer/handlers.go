package importer

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/config"
	"github.com/shishobooks/inpxlib/pkg/errcodes"
	"github.com/shishobooks/inpxlib/pkg/schema"
)

type handler struct {
	cfg           *config.Config
	importService *Service
	// exclusive is shared with extraction.
	exclusive *sync.Mutex
}

func (h *handler) run(c echo.Context) error {
	if h.cfg.InpxFilePath == "" {
		return errcodes.BadRequest("No INPX file is configured.")
	}
	if !h.exclusive.TryLock() {
		return errcodes.Busy("import or extraction")
	}
	defer h.exclusive.Unlock()

	run, err := h.importService.Import(c.Request().Context(), ImportOptions{
		Path:           h.cfg.InpxFilePath,
		Languages:      h.cfg.ImportLanguages,
		GenreNamesPath: h.cfg.GenreNamesFilePath,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, run))
}

func (h *handler) status(c echo.Context) error {
	ctx := c.Request().Context()

	run, err := h.importService.LatestRun(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	staleness, err := schema.CheckStale(ctx, h.importService.db, h.cfg.InpxFilePath)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"stale":          staleness.Stale,
		"reason":         staleness.Reason,
		"schema_version": schema.Version,
		"last_import":    run,
	}))
}

func (h *handler) runs(c echo.Context) error {
	params := ListRunsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	runs, err := h.importService.ListRuns(c.Request().Context(), params.Limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"runs":  runs,
		"total": len(runs),
	}))
}
