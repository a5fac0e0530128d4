package binder

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shishobooks/inpxlib/pkg/models"
)

// dateValidator accepts calendar dates written the way book dates are stored
// (YYYY-MM-DD). Empty strings pass so the tag can be combined with omitempty
// on optional filters.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse(models.BookDateFormat, value)
	return err == nil
}
