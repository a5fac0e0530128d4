package binder

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Omit  string `json:"-"`
}

type queryParams struct {
	Limit  int     `query:"limit" default:"24" validate:"min=1,max=50"`
	Search string  `query:"search" mod:"trim"`
	After  string  `query:"after" validate:"date"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json and application/x-www-form-urlencoded", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})

	t.Run("rejects empty bodies", func(tt *testing.T) {
		c := newContext("", echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "empty")
	})
}

func TestBind_Query(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("applies defaults and modifiers", func(tt *testing.T) {
		c := newQueryContext("/?search=+%D0%B7%D0%BE%D0%BB%D1%8F+")
		p := queryParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, 24, p.Limit)
		assert.Equal(tt, "золя", p.Search)
	})

	t.Run("names fields after their query parameter", func(tt *testing.T) {
		c := newQueryContext("/?limit=500")
		p := queryParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"limit" must be less than or equal to 50`)
	})

	t.Run("validates dates", func(tt *testing.T) {
		c := newQueryContext("/?after=yesterday")
		p := queryParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"after" should be in the format of YYYY-MM-DD`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newQueryContext("/?limit=ten")
		p := queryParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"limit" should be of type int`)
	})

	t.Run("disallows unknown parameters", func(tt *testing.T) {
		c := newQueryContext("/?bogus=1")
		p := queryParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "bogus"`)
	})
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func newQueryContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.GET, target, nil)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
