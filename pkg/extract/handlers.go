package extract

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/inpxlib/pkg/config"
	"github.com/shishobooks/inpxlib/pkg/errcodes"
	"github.com/shishobooks/inpxlib/pkg/fileutils"
)

type handler struct {
	cfg            *config.Config
	extractService *Service
	exclusive      *sync.Mutex
}

func (h *handler) extract(c echo.Context) error {
	params := ExtractPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	templateName := h.cfg.ExtractTemplate
	if params.Template != nil {
		templateName = *params.Template
	}
	tmpl, ok := fileutils.TemplateByName(templateName)
	if !ok {
		return errcodes.ValidationError("Unknown template " + templateName + ".")
	}

	packToZip := h.cfg.ExtractPackZip
	if params.PackToZip != nil {
		packToZip = *params.PackToZip
	}

	if !h.exclusive.TryLock() {
		return errcodes.Busy("import or extraction")
	}
	defer h.exclusive.Unlock()

	res, err := h.extractService.ExtractBooks(c.Request().Context(), params.IDs, Options{
		DestDir:    h.cfg.ExtractDirectory,
		LibraryDir: h.cfg.LibraryDirectory,
		PackToZip:  packToZip,
		Template:   tmpl,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := struct {
		*Result
		Extracted int    `json:"extracted"`
		Report    string `json:"report"`
	}{res, res.Extracted(), res.Report()}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}
