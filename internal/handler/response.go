package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"moonflix/internal/errors"
	"moonflix/internal/model"
)

// UserResponse is the public view of a user. It never carries the password.
type UserResponse struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Birthday       *time.Time `json:"birthday,omitempty"`
	FavoriteMovies []string   `json:"favoriteMovies"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func newUserResponse(u *model.User) UserResponse {
	favorites := u.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Birthday:       u.Birthday,
		FavoriteMovies: favorites,
	}
}

func newUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	return out
}

// errorResponse converts a domain error into the JSON error body.
func errorResponse(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func invalidRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "INVALID_REQUEST",
	})
}

// pathParam returns the decoded value of a path parameter. Echo routes on
// URL.RawPath when it is set and leaves those params escaped.
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
