package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"moonflix/internal/logger"
	"moonflix/internal/model"
	"moonflix/internal/repository"
)

var errMissingTitle = errors.New("movie has no title")

// LoadMovies reads a JSON array of movies from path.
func LoadMovies(path string) ([]model.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var movies []model.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return movies, nil
}

// SeedMovies creates each movie, or updates the catalog entry with the same
// title. It stops at the first failure.
func SeedMovies(ctx context.Context, repo repository.MovieRepository, movies []model.Movie) (created, updated int, err error) {
	log := logger.FromContext(ctx)
	for i := range movies {
		movie := movies[i]
		if movie.Title == "" {
			return created, updated, fmt.Errorf("seed movie %d: %w", i, errMissingTitle)
		}

		isNew, err := repo.Upsert(ctx, &movie)
		if err != nil {
			return created, updated, fmt.Errorf("seed movie %q: %w", movie.Title, err)
		}
		if isNew {
			created++
			log.Debug().Str("title", movie.Title).Msg("movie created")
		} else {
			updated++
			log.Debug().Str("title", movie.Title).Msg("movie updated")
		}
	}
	return created, updated, nil
}
