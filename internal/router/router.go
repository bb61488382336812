package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"moonflix/internal/auth"
	"moonflix/internal/config"
	"moonflix/internal/handler"
	"moonflix/internal/logger"
)

// Register wires middleware and routes. authMiddleware guards every route
// except login, signup, docs and health.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *logger.Logger,
	authMiddleware echo.MiddlewareFunc,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	movieHandler *handler.MovieHandler,
) error {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(contextLogger(log))
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.AllowedOrigins}))

	v, err := NewValidator()
	if err != nil {
		return err
	}
	e.Validator = v

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/api-docs", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/api-docs/index.html")
	})
	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	if cfg.PublicDir != "" {
		e.Static("/", cfg.PublicDir)
	}

	// Public routes
	e.POST("/login", authHandler.Login)
	e.POST("/users", userHandler.CreateUser)

	// Secured routes (require JWT authentication). Middleware is attached per
	// route: an empty-prefix group would also catch unmatched paths.
	secured := []echo.MiddlewareFunc{authMiddleware}
	e.GET("/movies", movieHandler.ListMovies, secured...)
	e.GET("/movies/:title", movieHandler.GetMovie, secured...)
	e.GET("/movies/genre/:genreName", movieHandler.GetGenre, secured...)
	e.GET("/movies/directors/:directorName", movieHandler.GetDirector, secured...)

	e.GET("/users", userHandler.ListUsers, secured...)
	e.GET("/users/:username", userHandler.GetUser, secured...)

	// Self-only routes
	self := []echo.MiddlewareFunc{authMiddleware, auth.RequireSelf("username")}
	e.PUT("/users/:username", userHandler.UpdateUser, self...)
	e.DELETE("/users/:username", userHandler.DeleteUser, self...)
	e.POST("/users/:username/movies/:movieId", userHandler.AddFavorite, self...)
	e.DELETE("/users/:username/movies/:movieId", userHandler.RemoveFavorite, self...)

	return nil
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator with the request rules registered.
func NewValidator() (*CustomValidator, error) {
	v := validator.New()
	if err := handler.RegisterValidations(v); err != nil {
		return nil, err
	}
	return &CustomValidator{validator: v}, nil
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
