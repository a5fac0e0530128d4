package errcodes

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{"custom error", NotFound("Book"), http.StatusNotFound, "not_found"},
		{"wrapped custom error", errors.Wrap(Busy("extraction"), "context"), http.StatusConflict, "busy"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "method_not_allowed"},
		{"generic error", errors.New("boom"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, payload := Payload(tt.err)
			assert.Equal(t, tt.expectedCode, code)
			body := payload["error"].(map[string]interface{})
			assert.Equal(t, tt.expectedBody, body["code"])
			assert.Equal(t, tt.expectedCode, body["status_code"])
		})
	}
}

func TestError_Is(t *testing.T) {
	t.Parallel()

	err := errors.WithStack(NotFound("Author"))
	assert.ErrorIs(t, err, NotFound("Author"))
	assert.NotErrorIs(t, err, NotFound("Series"))
}
