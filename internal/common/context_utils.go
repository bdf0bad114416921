package common

import (
	"github.com/labstack/echo/v4"
)

// Keys under which request-scoped values are stored on the echo context
const (
	APIVersionKey   = "api_version"
	PathSegmentsKey = "api_path"
)

// GetPathSegments returns the path segments that follow the version prefix
func GetPathSegments(c echo.Context) []string {
	segments, _ := c.Get(PathSegmentsKey).([]string)
	return segments
}

// GetAPIVersion returns the API version resolved for the request
func GetAPIVersion(c echo.Context) (string, bool) {
	version, ok := c.Get(APIVersionKey).(string)
	return version, ok
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
