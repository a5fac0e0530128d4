package binder

import (
	"reflect"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
)

// fieldError satisfies validator.FieldError for the parts the formatter reads.
type fieldError struct {
	tag   string
	field string
	param string
	kind  reflect.Kind
}

func (e *fieldError) Error() string                    { return e.field + " failed " + e.tag }
func (e *fieldError) Tag() string                      { return e.tag }
func (e *fieldError) ActualTag() string                { return e.tag }
func (e *fieldError) Namespace() string                { return "" }
func (e *fieldError) StructNamespace() string          { return "" }
func (e *fieldError) Field() string                    { return e.field }
func (e *fieldError) StructField() string              { return "" }
func (e *fieldError) Value() interface{}               { return nil }
func (e *fieldError) Param() string                    { return e.param }
func (e *fieldError) Kind() reflect.Kind               { return e.kind }
func (e *fieldError) Type() reflect.Type               { return nil }
func (e *fieldError) Translate(_ ut.Translator) string { return "" }

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  fieldError
		msg  string
	}{
		{"date", fieldError{tag: date, field: "date_from", kind: reflect.String}, `"date_from" should be in the format of YYYY-MM-DD`},
		{"limit too large", fieldError{tag: mx, field: "limit", param: "500", kind: reflect.Int}, `"limit" must be less than or equal to 500`},
		{"negative offset", fieldError{tag: mn, field: "offset", param: "0", kind: reflect.Int}, `"offset" must be greater than or equal to 0`},
		{"alpha too long", fieldError{tag: mx, field: "alpha", param: "1", kind: reflect.String}, `"alpha" length must be less than or equal to 1 character`},
		{"search too long", fieldError{tag: mx, field: "search", param: "100", kind: reflect.String}, `"search" length must be less than or equal to 100 characters`},
		{"no ids", fieldError{tag: mn, field: "ids", param: "1", kind: reflect.Slice}, `"ids" length must be greater than or equal to 1 element`},
		{"too many ids", fieldError{tag: mx, field: "ids", param: "1000", kind: reflect.Slice}, `"ids" length must be less than or equal to 1000 elements`},
		{"favorites", fieldError{tag: oneof, field: "favorites", param: "authors series all", kind: reflect.String}, `"favorites" must be one of the following: "authors", "series", "all"`},
		{"required", fieldError{tag: required, field: "name", kind: reflect.String}, `"name" is required`},
		{"anything else", fieldError{tag: "uuid", field: "id", kind: reflect.String}, `"id" is invalid`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.msg, formatValidationError(&tt.err))
		})
	}
}
