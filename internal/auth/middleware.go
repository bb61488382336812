package auth

import (
	stderrors "errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"moonflix/internal/errors"
	"moonflix/internal/logger"
	"moonflix/internal/model"
	"moonflix/internal/repository"
)

// ContextKeyUser is the echo context key holding the authenticated *model.User.
const ContextKeyUser = "user"

// Middleware authenticates requests carrying "Authorization: Bearer <token>".
// The token subject must name a stored user; that user is placed in the
// context under ContextKeyUser.
func Middleware(tokens *JWTService, users repository.UserRepository) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: ContextKeyUser,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				return nil, err
			}
			user, err := users.FindByUsername(c.Request().Context(), claims.Subject)
			if err != nil {
				return nil, err
			}
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if stderrors.Is(err, repository.ErrUnavailable) {
				logger.FromContext(c.Request().Context()).Error().Err(err).Msg("resolve token subject")
				httpErr := errors.MapErrorToHTTP(errors.ErrStoreUnavailable)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			logger.FromContext(c.Request().Context()).Debug().Err(err).Msg("bearer authentication failed")
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: errors.ErrAuthenticationFailed.Error(),
				Code:  "AUTHENTICATION_FAILED",
			})
		},
	})
}

// CurrentUser returns the user authenticated by Middleware.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextKeyUser).(*model.User)
	return user, ok && user != nil
}

// RequireSelf rejects the request with 403 unless the path parameter param
// equals the authenticated user's username.
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: errors.ErrAuthenticationFailed.Error(),
					Code:  "AUTHENTICATION_FAILED",
				})
			}
			if user.Username != c.Param(param) {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: errors.ErrForbidden.Error(),
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
