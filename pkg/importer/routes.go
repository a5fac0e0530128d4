package importer

import (
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/inpxlib/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers import routes on a pre-configured group.
// exclusive keeps imports and extractions from running at the same time.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, exclusive *sync.Mutex) {
	h := &handler{
		cfg:           cfg,
		importService: NewService(db),
		exclusive:     exclusive,
	}

	g.GET("", h.status)
	g.POST("", h.run)
	g.GET("/runs", h.runs)
}
