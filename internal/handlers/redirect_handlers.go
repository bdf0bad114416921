package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RedirectHandlers sends the non-API paths to the public site
type RedirectHandlers struct {
	homeURL    string
	faviconURL string
}

func NewRedirectHandlers(homeURL, faviconURL string) *RedirectHandlers {
	return &RedirectHandlers{
		homeURL:    homeURL,
		faviconURL: faviconURL,
	}
}

// Home handles /
func (h *RedirectHandlers) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.homeURL)
}

// Favicon handles /favicon.ico
func (h *RedirectHandlers) Favicon(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, h.faviconURL)
}
