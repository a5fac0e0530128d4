package extract

import (
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/inpxlib/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the extraction route on a pre-configured
// group. exclusive keeps imports and extractions from running at the same
// time.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, exclusive *sync.Mutex) {
	h := &handler{
		cfg:            cfg,
		extractService: NewService(db),
		exclusive:      exclusive,
	}

	g.POST("", h.extract)
}
