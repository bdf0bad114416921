package handlers

import (
	"userapi/internal/middleware"
	"userapi/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

const currentAPIVersion = "v1.0"

// RouterConfig carries the settings the HTTP surface needs
type RouterConfig struct {
	Version    string
	HomeURL    string
	FaviconURL string
	BodyLimit  string
}

// NewRouter builds the echo instance serving the users API
func NewRouter(cfg RouterConfig, userRepo repositories.UserRepository, db Pinger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Global middleware
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	if cfg.BodyLimit != "" {
		e.Use(echoMiddleware.BodyLimit(cfg.BodyLimit))
	}

	redirects := NewRedirectHandlers(cfg.HomeURL, cfg.FaviconURL)
	e.Any("/", redirects.Home)
	e.Any("/favicon.ico", redirects.Favicon)

	versionMiddleware := middleware.NewVersionMiddleware(currentAPIVersion)
	versionMiddleware.AddVersion(currentAPIVersion, "active", "Current stable API version", nil)

	health := NewHealthHandlers(db, cfg.Version, versionMiddleware.GetCurrentVersion())
	e.GET("/health", health.HealthCheck)

	userHandlers := NewUserHandlers(userRepo)
	e.Any("/*", userHandlers.Handle, versionMiddleware.RequireVersion())

	return e
}
