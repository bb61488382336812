package repository

import (
	"context"
	"errors"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"moonflix/internal/model"
)

// UserRepository defines user persistence operations. Every implementation
// enforces unique usernames and emails and returns ErrNotFound,
// *DuplicateKeyError or ErrUnavailable for the matching failures.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, username string, update model.UserUpdate) (*model.User, error)
	Delete(ctx context.Context, username string) error
	AddFavorite(ctx context.Context, username, movieID string) (*model.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return r.translate(err, user.Username, user.Email)
	}
	return nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, r.translate(err, username, "")
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, translateContextErr(err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, username string, update model.UserUpdate) (*model.User, error) {
	return r.modify(ctx, username, func(u *model.User) {
		update.Apply(u)
	})
}

func (r *userRepository) Delete(ctx context.Context, username string) error {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&model.User{})
	if res.Error != nil {
		return translateContextErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) AddFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	return r.modify(ctx, username, func(u *model.User) {
		u.FavoriteMovies = append(u.FavoriteMovies, movieID)
	})
}

func (r *userRepository) RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	return r.modify(ctx, username, func(u *model.User) {
		u.FavoriteMovies = slices.DeleteFunc(u.FavoriteMovies, func(id string) bool {
			return id == movieID
		})
	})
}

// modify runs a locked read-modify-write of one user row inside a transaction.
func (r *userRepository) modify(ctx context.Context, username string, fn func(u *model.User)) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("username = ?", username).First(&user).Error; err != nil {
			return err
		}
		fn(&user)
		if user.FavoriteMovies == nil {
			user.FavoriteMovies = []string{}
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, r.translate(err, user.Username, user.Email)
	}
	return &user, nil
}

func (r *userRepository) translate(err error, username, email string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if detail, ok := duplicateKeyDetail(err); ok {
		return duplicateUserField(detail, username, email)
	}
	return translateContextErr(err)
}
