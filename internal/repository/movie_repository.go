package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"moonflix/internal/model"
)

// MovieRepository defines read access to the movie catalog, plus the upsert
// used when seeding it.
type MovieRepository interface {
	List(ctx context.Context) ([]model.Movie, error)
	FindByTitle(ctx context.Context, title string) (*model.Movie, error)
	FindGenre(ctx context.Context, name string) (*model.Genre, error)
	FindDirector(ctx context.Context, name string) (*model.Director, error)
	// Upsert creates the movie or replaces the one with the same title.
	Upsert(ctx context.Context, movie *model.Movie) (created bool, err error)
}

type movieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new GORM-backed movie repository.
func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

// List lists all movies.
func (r *movieRepository) List(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := r.db.WithContext(ctx).Order("title").Find(&movies).Error; err != nil {
		return nil, translateContextErr(err)
	}
	return movies, nil
}

// FindByTitle finds a movie by its exact title.
func (r *movieRepository) FindByTitle(ctx context.Context, title string) (*model.Movie, error) {
	return r.first(ctx, "title = ?", title)
}

// FindGenre returns the genre of the first movie carrying it.
func (r *movieRepository) FindGenre(ctx context.Context, name string) (*model.Genre, error) {
	movie, err := r.first(ctx, "genre_name = ?", name)
	if err != nil {
		return nil, err
	}
	return &movie.Genre, nil
}

// FindDirector returns the director of the first movie they directed.
func (r *movieRepository) FindDirector(ctx context.Context, name string) (*model.Director, error) {
	movie, err := r.first(ctx, "director_name = ?", name)
	if err != nil {
		return nil, err
	}
	return &movie.Director, nil
}

// Upsert creates the movie or overwrites the existing one with the same title.
func (r *movieRepository) Upsert(ctx context.Context, movie *model.Movie) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Movie
		err := tx.Where("title = ?", movie.Title).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(movie).Error
		}
		if err != nil {
			return err
		}
		movie.ID = existing.ID
		movie.CreatedAt = existing.CreatedAt
		return tx.Save(movie).Error
	})
	if err != nil {
		return false, translateContextErr(err)
	}
	return created, nil
}

func (r *movieRepository) first(ctx context.Context, query string, arg string) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.WithContext(ctx).Where(query, arg).Order("title").First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, translateContextErr(err)
	}
	return &movie, nil
}
