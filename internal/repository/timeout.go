package repository

import (
	"context"
	"time"

	"moonflix/internal/model"
)

// timeoutUserRepository bounds every call to the wrapped repository.
type timeoutUserRepository struct {
	next    UserRepository
	timeout time.Duration
}

// NewTimeoutUserRepository wraps next so that each operation runs under its
// own deadline. A call that outlives it fails with ErrUnavailable.
func NewTimeoutUserRepository(next UserRepository, timeout time.Duration) UserRepository {
	return &timeoutUserRepository{next: next, timeout: timeout}
}

func (r *timeoutUserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return translateContextErr(r.next.Create(ctx, user))
}

func (r *timeoutUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	user, err := r.next.FindByUsername(ctx, username)
	return user, translateContextErr(err)
}

func (r *timeoutUserRepository) List(ctx context.Context) ([]model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	users, err := r.next.List(ctx)
	return users, translateContextErr(err)
}

func (r *timeoutUserRepository) Update(ctx context.Context, username string, update model.UserUpdate) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	user, err := r.next.Update(ctx, username, update)
	return user, translateContextErr(err)
}

func (r *timeoutUserRepository) Delete(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return translateContextErr(r.next.Delete(ctx, username))
}

func (r *timeoutUserRepository) AddFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	user, err := r.next.AddFavorite(ctx, username, movieID)
	return user, translateContextErr(err)
}

func (r *timeoutUserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	user, err := r.next.RemoveFavorite(ctx, username, movieID)
	return user, translateContextErr(err)
}

type timeoutMovieRepository struct {
	next    MovieRepository
	timeout time.Duration
}

// NewTimeoutMovieRepository is the MovieRepository counterpart of
// NewTimeoutUserRepository.
func NewTimeoutMovieRepository(next MovieRepository, timeout time.Duration) MovieRepository {
	return &timeoutMovieRepository{next: next, timeout: timeout}
}

func (r *timeoutMovieRepository) List(ctx context.Context) ([]model.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	movies, err := r.next.List(ctx)
	return movies, translateContextErr(err)
}

func (r *timeoutMovieRepository) FindByTitle(ctx context.Context, title string) (*model.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	movie, err := r.next.FindByTitle(ctx, title)
	return movie, translateContextErr(err)
}

func (r *timeoutMovieRepository) FindGenre(ctx context.Context, name string) (*model.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	genre, err := r.next.FindGenre(ctx, name)
	return genre, translateContextErr(err)
}

func (r *timeoutMovieRepository) FindDirector(ctx context.Context, name string) (*model.Director, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	director, err := r.next.FindDirector(ctx, name)
	return director, translateContextErr(err)
}

func (r *timeoutMovieRepository) Upsert(ctx context.Context, movie *model.Movie) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	created, err := r.next.Upsert(ctx, movie)
	return created, translateContextErr(err)
}
