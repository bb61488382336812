package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"moonflix/internal/service"
)

// MovieHandler serves the read-only catalog endpoints.
type MovieHandler struct {
	svc service.MovieService
}

// NewMovieHandler creates a movie handler.
func NewMovieHandler(svc service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// ListMovies godoc
// @Summary List all movies
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Movie
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /movies [get]
func (h *MovieHandler) ListMovies(c echo.Context) error {
	movies, err := h.svc.List(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, movies)
}

// GetMovie godoc
// @Summary Get a movie by title
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param title path string true "Movie title"
// @Success 200 {object} model.Movie
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/{title} [get]
func (h *MovieHandler) GetMovie(c echo.Context) error {
	movie, err := h.svc.GetByTitle(c.Request().Context(), pathParam(c, "title"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, movie)
}

// GetGenre godoc
// @Summary Get a genre by name
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param genreName path string true "Genre name"
// @Success 200 {object} model.Genre
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/genre/{genreName} [get]
func (h *MovieHandler) GetGenre(c echo.Context) error {
	genre, err := h.svc.GetGenre(c.Request().Context(), pathParam(c, "genreName"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, genre)
}

// GetDirector godoc
// @Summary Get a director by name
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param directorName path string true "Director name"
// @Success 200 {object} model.Director
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/directors/{directorName} [get]
func (h *MovieHandler) GetDirector(c echo.Context) error {
	director, err := h.svc.GetDirector(c.Request().Context(), pathParam(c, "directorName"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, director)
}
