package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "HTTP error keeps its status",
			method:       http.MethodGet,
			err:          echo.NewHTTPError(http.StatusNotFound, "No user found with specified uuid: x"),
			expectedCode: http.StatusNotFound,
			expectedBody: "No user found with specified uuid: x",
		},
		{
			name:         "Plain error is a server error",
			method:       http.MethodPut,
			err:          errors.New("A user already exists with the given sms."),
			expectedCode: http.StatusInternalServerError,
			expectedBody: "A user already exists with the given sms.",
		},
		{
			name:         "Wrapped HTTP error",
			method:       http.MethodGet,
			err:          errors.Join(echo.NewHTTPError(http.StatusBadRequest, "bad")),
			expectedCode: http.StatusBadRequest,
			expectedBody: "bad",
		},
		{
			name:         "HEAD has no body",
			method:       http.MethodHead,
			err:          echo.NewHTTPError(http.StatusBadRequest, "bad"),
			expectedCode: http.StatusBadRequest,
			expectedBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(tt.method, "/v1.0/users", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			HTTPErrorHandler(tt.err, c)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, tt.expectedBody, rec.Body.String())
			if tt.method != http.MethodHead {
				assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1.0/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, c.String(http.StatusOK, "done"))
	HTTPErrorHandler(errors.New("late failure"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
