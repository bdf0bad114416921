package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"userapi/internal/common"
	"userapi/internal/models"
	"userapi/internal/repositories"

	"github.com/labstack/echo/v4"
)

const usersResource = "users"

// Envelope wraps every successful /users response
type Envelope struct {
	Path     []string        `json:"path"`
	Args     models.UserArgs `json:"args"`
	Method   string          `json:"method"`
	Response interface{}     `json:"response"`
}

// userRequest is the validated form of one /users call
type userRequest struct {
	Path []string
	UUID string
	Args models.UserArgs
}

type userOperation func(c echo.Context, req *userRequest) (interface{}, error)

// UserHandlers handles the /users resource
type UserHandlers struct {
	userRepo   repositories.UserRepository
	operations map[string]userOperation
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(userRepo repositories.UserRepository) *UserHandlers {
	h := &UserHandlers{userRepo: userRepo}
	h.operations = map[string]userOperation{
		http.MethodGet:    h.getUsers,
		http.MethodPost:   h.createUser,
		http.MethodPut:    h.updateUser,
		http.MethodDelete: h.deleteUser,
	}
	return h
}

// Handle serves every path below the version prefix. It expects the version
// guard to have stored the remaining path segments on the context.
func (h *UserHandlers) Handle(c echo.Context) error {
	segments := common.GetPathSegments(c)

	resource := ""
	if len(segments) > 0 {
		resource = segments[0]
	}
	if resource != usersResource || len(segments) > 2 {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(
			"Endpoint /%s does not exist. This API supports only the /%s endpoint.",
			strings.Join(segments, "/"), usersResource))
	}

	method := strings.ToUpper(c.Request().Method)
	operation, ok := h.operations[method]
	if !ok {
		return echo.NewHTTPError(http.StatusMethodNotAllowed, fmt.Sprintf(
			"Method %s is not supported on /%s", method, usersResource))
	}

	args, err := collectArguments(c)
	if err != nil {
		return err
	}

	req := &userRequest{Path: segments, Args: args}
	if len(segments) == 2 {
		req.UUID = segments[1]
	}

	result, err := operation(c, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Envelope{
		Path:     req.Path,
		Args:     req.Args,
		Method:   method,
		Response: result,
	})
}

// getUsers handles GET /users and GET /users/:uuid
func (h *UserHandlers) getUsers(c echo.Context, req *userRequest) (interface{}, error) {
	ctx := c.Request().Context()

	if req.UUID == "" {
		return h.userRepo.List(ctx)
	}

	user, err := h.userRepo.GetByUUID(ctx, req.UUID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound(req.UUID)
	}
	return user, nil
}

// createUser handles POST /users
func (h *UserHandlers) createUser(c echo.Context, req *userRequest) (interface{}, error) {
	if req.UUID != "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(
			"POST does not accept a uuid in the path: %s", req.UUID))
	}

	user, err := h.userRepo.Create(c.Request().Context(), req.Args)
	if err != nil {
		return nil, err
	}

	apiVersion, _ := common.GetAPIVersion(c)
	log.Printf("INFO: created user %s (username=%s, api=%s)", user.UUID, common.SafeString(user.Username), apiVersion)
	return user, nil
}

// updateUser handles PUT /users/:uuid
func (h *UserHandlers) updateUser(c echo.Context, req *userRequest) (interface{}, error) {
	if req.UUID == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "PUT requires a user uuid in the path")
	}
	if req.Args.IsEmpty() {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "PUT requires at least one of: email, sms, name, username")
	}

	user, err := h.userRepo.Update(c.Request().Context(), req.UUID, req.Args)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound(req.UUID)
	}
	return user, nil
}

// deleteUser handles DELETE /users/:uuid
func (h *UserHandlers) deleteUser(c echo.Context, req *userRequest) (interface{}, error) {
	if req.UUID == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "DELETE requires a user uuid in the path")
	}

	before, after, err := h.userRepo.Delete(c.Request().Context(), req.UUID)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, notFound(req.UUID)
	}
	if after != nil {
		return nil, fmt.Errorf("Failed to delete requested user: %s", req.UUID)
	}

	apiVersion, _ := common.GetAPIVersion(c)
	log.Printf("INFO: deleted user %s (api=%s)", req.UUID, apiVersion)
	return "user deleted successfully", nil
}

func notFound(uuid string) error {
	return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("No user found with specified uuid: %s", uuid))
}
