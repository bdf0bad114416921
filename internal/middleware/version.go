package middleware

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"userapi/internal/common"

	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active", "deprecated", "sunset"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// VersionMiddleware guards the version prefix of every API path
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

// NewVersionMiddleware creates a version middleware whose current version is
// current. Versions are registered with AddVersion.
func NewVersionMiddleware(current string) *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: make(map[string]APIVersion),
		defaultVersion:    current,
	}
}

// RequireVersion rejects requests whose first path segment is not a supported
// version. Passing requests carry the remaining segments in the context under
// common.PathSegmentsKey, with a trailing empty segment removed.
func (vm *VersionMiddleware) RequireVersion() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			segments := strings.Split(c.Request().URL.Path, "/")

			requested := ""
			if len(segments) > 1 {
				requested = segments[1]
			}

			ver, supported := vm.supportedVersions[requested]
			if !supported || ver.Status == "sunset" {
				return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(
					"Invalid API version in URL: %s\nCurrently supported version(s): %s",
					requested, strings.Join(vm.getSupportedVersions(), ", ")))
			}

			rest := segments[2:]
			if n := len(rest); n > 0 && rest[n-1] == "" {
				rest = rest[:n-1]
			}

			c.Set(common.APIVersionKey, requested)
			c.Set(common.PathSegmentsKey, rest)
			vm.setVersionHeaders(c, ver)

			return next(c)
		}
	}
}

func (vm *VersionMiddleware) setVersionHeaders(c echo.Context, ver APIVersion) {
	header := c.Response().Header()
	header.Set("X-API-Version", ver.Version)
	if ver.Status == "deprecated" {
		header.Set("X-API-Deprecated", "true")
		if ver.SunsetDate != nil {
			header.Set("X-API-Sunset", ver.SunsetDate.Format(time.RFC3339))
			header.Set("Warning", "299 userapi \"This API version is deprecated and will be removed on "+ver.SunsetDate.Format("2006-01-02")+"\"")
		}
	}
	if ver.Message != "" {
		header.Set("X-API-Message", ver.Message)
	}
}

// getSupportedVersions returns a sorted list of usable API versions
func (vm *VersionMiddleware) getSupportedVersions() []string {
	var versions []string
	for version, info := range vm.supportedVersions {
		if info.Status == "active" || info.Status == "deprecated" {
			versions = append(versions, version)
		}
	}
	sort.Strings(versions)
	return versions
}

// GetCurrentVersion returns the current active API version
func (vm *VersionMiddleware) GetCurrentVersion() string {
	return vm.defaultVersion
}

// AddVersion adds a new API version with its configuration
func (vm *VersionMiddleware) AddVersion(version string, status string, message string, sunsetDate *time.Time) {
	vm.supportedVersions[version] = APIVersion{
		Version:    version,
		Status:     status,
		SunsetDate: sunsetDate,
		Message:    message,
	}
}
