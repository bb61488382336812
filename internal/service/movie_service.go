package service

import (
	"context"

	apperrors "moonflix/internal/errors"
	"moonflix/internal/model"
	"moonflix/internal/repository"
)

// MovieService exposes read access to the catalog.
type MovieService interface {
	List(ctx context.Context) ([]model.Movie, error)
	GetByTitle(ctx context.Context, title string) (*model.Movie, error)
	GetGenre(ctx context.Context, name string) (*model.Genre, error)
	GetDirector(ctx context.Context, name string) (*model.Director, error)
}

type movieService struct {
	repo repository.MovieRepository
}

// NewMovieService creates a MovieService over repo.
func NewMovieService(repo repository.MovieRepository) MovieService {
	return &movieService{repo: repo}
}

func (s *movieService) List(ctx context.Context) ([]model.Movie, error) {
	movies, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(ctx, "list movies", err, nil)
	}
	return movies, nil
}

func (s *movieService) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	movie, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		return nil, storeError(ctx, "get movie", err, apperrors.ErrMovieNotFound)
	}
	return movie, nil
}

func (s *movieService) GetGenre(ctx context.Context, name string) (*model.Genre, error) {
	genre, err := s.repo.FindGenre(ctx, name)
	if err != nil {
		return nil, storeError(ctx, "get genre", err, apperrors.ErrGenreNotFound)
	}
	return genre, nil
}

func (s *movieService) GetDirector(ctx context.Context, name string) (*model.Director, error) {
	director, err := s.repo.FindDirector(ctx, name)
	if err != nil {
		return nil, storeError(ctx, "get director", err, apperrors.ErrDirectorNotFound)
	}
	return director, nil
}
