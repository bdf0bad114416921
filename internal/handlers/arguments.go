package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"userapi/internal/models"

	"github.com/labstack/echo/v4"
)

// Arguments is the flattened key/value view of a query string or request body
type Arguments map[string]interface{}

// ParseArguments decodes a raw query string or body. Input that looks like a
// JSON object or list is decoded as JSON, anything else as a URL query.
// JSON lists cannot be mapped onto user fields and are rejected.
func ParseArguments(raw string) (Arguments, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Arguments{}, nil
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		var decoded interface{}
		if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
			return nil, fmt.Errorf("arguments are not valid JSON: %w", err)
		}
		object, ok := decoded.(map[string]interface{})
		if !ok {
			return nil, errors.New("arguments must be a JSON object, got a JSON list")
		}
		args := make(Arguments, len(object))
		for k, v := range object {
			args[k] = delistValue(v)
		}
		return args, nil
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("arguments are not valid form encoding: %w", err)
	}
	return Delist(values), nil
}

// Delist flattens every single-valued key to its scalar value. Keys with
// several values keep the whole list.
func Delist(values map[string][]string) Arguments {
	args := make(Arguments, len(values))
	for k, v := range values {
		if len(v) == 1 {
			args[k] = v[0]
		} else {
			args[k] = v
		}
	}
	return args
}

func delistValue(v interface{}) interface{} {
	if list, ok := v.([]interface{}); ok && len(list) == 1 {
		return list[0]
	}
	return v
}

// MergeArguments lays every key of extra over base
func MergeArguments(base, extra Arguments) Arguments {
	merged := make(Arguments, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// BindUserArgs maps arguments onto the typed user fields. Unknown keys and
// values that are not a single string are rejected; JSON null and blank
// strings count as absent.
func BindUserArgs(args Arguments) (models.UserArgs, error) {
	var bound models.UserArgs

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := args[key]
		if value == nil {
			continue
		}

		var target **string
		switch key {
		case "email":
			target = &bound.Email
		case "sms":
			target = &bound.SMS
		case "name":
			target = &bound.Name
		case "username":
			target = &bound.Username
		default:
			return models.UserArgs{}, fmt.Errorf("Unsupported argument: %s. Supported arguments: email, sms, name, username", key)
		}

		s, ok := value.(string)
		if !ok {
			return models.UserArgs{}, fmt.Errorf("Argument %s must be a single string value", key)
		}
		if s != "" {
			*target = &s
		}
	}
	return bound, nil
}

// collectArguments gathers the query string and body arguments of a request.
// Body keys override query keys.
func collectArguments(c echo.Context) (models.UserArgs, error) {
	query, err := ParseArguments(c.QueryString())
	if err != nil {
		return models.UserArgs{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	body, err := bodyArguments(c)
	if err != nil {
		return models.UserArgs{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bound, err := BindUserArgs(MergeArguments(query, body))
	if err != nil {
		return models.UserArgs{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return bound, nil
}

func bodyArguments(c echo.Context) (Arguments, error) {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 {
		return Arguments{}, nil
	}

	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fmt.Errorf("failed to parse multipart body: %w", err)
		}
		return Delist(form.Value), nil
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return ParseArguments(string(raw))
}
