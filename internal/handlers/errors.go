package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders every error as plain text. Errors raised with
// echo.NewHTTPError keep their status code; anything else is a 500 carrying
// the error message.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	}

	if code >= http.StatusInternalServerError {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		log.Printf("ERROR: %s %s failed (request_id=%s): %v", c.Request().Method, c.Request().URL.Path, requestID, err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.String(code, message)
	}
	if writeErr != nil {
		log.Printf("WARN: failed to write error response: %v", writeErr)
	}
}
