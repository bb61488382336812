package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"moonflix/internal/model"
)

// MemoryUserRepository keeps users in process memory. It is used for local
// development and tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User // keyed by username
}

var _ UserRepository = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository returns an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*model.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return translateContextErr(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return &DuplicateKeyError{Field: "username", Value: user.Username}
	}
	if r.emailTakenLocked(user.Email, "") {
		return &DuplicateKeyError{Field: "email", Value: user.Email}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.Username] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, translateContextErr(err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, translateContextErr(err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, username string, update model.UserUpdate) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, translateContextErr(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Username != username {
		if _, taken := r.users[update.Username]; taken {
			return nil, &DuplicateKeyError{Field: "username", Value: update.Username}
		}
	}
	if r.emailTakenLocked(update.Email, username) {
		return nil, &DuplicateKeyError{Field: "email", Value: update.Email}
	}

	updated := cloneUser(u)
	update.Apply(updated)
	updated.UpdatedAt = time.Now().UTC()

	delete(r.users, username)
	r.users[updated.Username] = updated
	return cloneUser(updated), nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, username string) error {
	if err := ctx.Err(); err != nil {
		return translateContextErr(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; !ok {
		return ErrNotFound
	}
	delete(r.users, username)
	return nil
}

func (r *MemoryUserRepository) AddFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	return r.modify(ctx, username, func(u *model.User) {
		u.FavoriteMovies = append(u.FavoriteMovies, movieID)
	})
}

func (r *MemoryUserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	return r.modify(ctx, username, func(u *model.User) {
		u.FavoriteMovies = slices.DeleteFunc(u.FavoriteMovies, func(id string) bool {
			return id == movieID
		})
	})
}

func (r *MemoryUserRepository) modify(ctx context.Context, username string, fn func(u *model.User)) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, translateContextErr(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) emailTakenLocked(email, exceptUsername string) bool {
	for name, u := range r.users {
		if name != exceptUsername && u.Email == email {
			return true
		}
	}
	return false
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.FavoriteMovies = slices.Clone(u.FavoriteMovies)
	if c.FavoriteMovies == nil {
		c.FavoriteMovies = []string{}
	}
	if u.Birthday != nil {
		b := *u.Birthday
		c.Birthday = &b
	}
	return &c
}

// MemoryMovieRepository keeps the catalog in process memory.
type MemoryMovieRepository struct {
	mu     sync.RWMutex
	movies map[string]*model.Movie // keyed by title
}

var _ MovieRepository = (*MemoryMovieRepository)(nil)

// NewMemoryMovieRepository returns a catalog holding movies.
func NewMemoryMovieRepository(movies ...model.Movie) *MemoryMovieRepository {
	r := &MemoryMovieRepository{movies: make(map[string]*model.Movie)}
	for i := range movies {
		m := movies[i]
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		r.movies[m.Title] = &m
	}
	return r
}

func (r *MemoryMovieRepository) List(ctx context.Context) ([]model.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, translateContextErr(err)
	}
	return r.sorted(), nil
}

func (r *MemoryMovieRepository) FindByTitle(ctx context.Context, title string) (*model.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, translateContextErr(err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.movies[title]
	if !ok {
		return nil, ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r *MemoryMovieRepository) FindGenre(ctx context.Context, name string) (*model.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, translateContextErr(err)
	}
	for _, m := range r.sorted() {
		if m.Genre.Name == name {
			g := m.Genre
			return &g, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryMovieRepository) FindDirector(ctx context.Context, name string) (*model.Director, error) {
	if err := ctx.Err(); err != nil {
		return nil, translateContextErr(err)
	}
	for _, m := range r.sorted() {
		if m.Director.Name == name {
			d := m.Director
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryMovieRepository) Upsert(ctx context.Context, movie *model.Movie) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, translateContextErr(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.movies[movie.Title]
	if ok {
		movie.ID = existing.ID
		movie.CreatedAt = existing.CreatedAt
	} else {
		if movie.ID == "" {
			movie.ID = uuid.NewString()
		}
		movie.CreatedAt = now
	}
	movie.UpdatedAt = now
	c := *movie
	r.movies[movie.Title] = &c
	return !ok, nil
}

func (r *MemoryMovieRepository) sorted() []model.Movie {
	r.mu.RLock()
	defer r.mu.RUnlock()

	movies := make([]model.Movie, 0, len(r.movies))
	for _, m := range r.movies {
		movies = append(movies, *m)
	}
	sort.Slice(movies, func(i, j int) bool {
		return movies[i].Title < movies[j].Title
	})
	return movies
}
