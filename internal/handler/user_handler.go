package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"moonflix/internal/model"
	"moonflix/internal/service"
)

// UserHandler serves the user account and favorite-list endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest is the signup payload.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=5,alphanum" example:"moviefan1"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72" example:"s3cretpass"`
	Email    string `json:"email" validate:"required,email" example:"fan@example.com"`
	Birthday string `json:"birthday,omitempty" validate:"omitempty,isodate" example:"1990-01-31"`
}

// UpdateUserRequest is the profile update payload. Password is optional.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=5,alphanum"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8,maxbytes=72"`
	Email    string `json:"email" validate:"required,email"`
	Birthday string `json:"birthday,omitempty" validate:"omitempty,isodate"`
}

// CreateUser godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user, err := h.svc.Create(c.Request().Context(), service.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Birthday: parseBirthday(req.Birthday),
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, newUserResponse(user))
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newUserResponses(users))
}

// GetUser godoc
// @Summary Get user by username
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{username} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.svc.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

// UpdateUser godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param user body UpdateUserRequest true "Profile fields"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationErrorResponse
// @Router /users/{username} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user, err := h.svc.Update(c.Request().Context(), c.Param("username"), service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Birthday: parseBirthday(req.Birthday),
		Password: req.Password,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

// DeleteUser godoc
// @Summary Delete own account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{username} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	username := c.Param("username")
	if err := h.svc.Delete(c.Request().Context(), username); err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("%s was deleted.", username)})
}

// AddFavorite godoc
// @Summary Add a movie to own favorites
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param movieId path string true "Movie ID"
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{username}/movies/{movieId} [post]
func (h *UserHandler) AddFavorite(c echo.Context) error {
	user, err := h.svc.AddFavorite(c.Request().Context(), c.Param("username"), pathParam(c, "movieId"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

// RemoveFavorite godoc
// @Summary Remove a movie from own favorites
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param movieId path string true "Movie ID"
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{username}/movies/{movieId} [delete]
func (h *UserHandler) RemoveFavorite(c echo.Context) error {
	user, err := h.svc.RemoveFavorite(c.Request().Context(), c.Param("username"), pathParam(c, "movieId"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

// parseBirthday parses an already validated birthday, or returns nil.
func parseBirthday(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := model.ParseDate(s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
