package service

import (
	"context"
	"time"

	"moonflix/internal/auth"
	apperrors "moonflix/internal/errors"
	"moonflix/internal/events"
	"moonflix/internal/logger"
	"moonflix/internal/model"
	"moonflix/internal/repository"
)

// CreateUserInput holds validated signup fields.
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	Birthday *time.Time
}

// UpdateUserInput holds validated profile fields. Birthday and Password are
// left unchanged when empty.
type UpdateUserInput struct {
	Username string
	Email    string
	Birthday *time.Time
	Password string
}

// UserService exposes user account and favorite-list operations.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, username string, in UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, username string) error
	AddFavorite(ctx context.Context, username, movieID string) (*model.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	hasher    auth.PasswordHasher
	publisher events.Publisher
}

// NewUserService builds a UserService. Successful writes are announced on
// publisher.
func NewUserService(repo repository.UserRepository, hasher auth.PasswordHasher, publisher events.Publisher) UserService {
	return &userService{repo: repo, hasher: hasher, publisher: publisher}
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       in.Username,
		PasswordHash:   hash,
		Email:          in.Email,
		Birthday:       in.Birthday,
		FavoriteMovies: []string{},
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storeError(ctx, "create user", err, nil)
	}

	s.publish(ctx, events.SubjectUserCreated, user.Username)
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(ctx, "list users", err, nil)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, storeError(ctx, "get user", err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, username string, in UpdateUserInput) (*model.User, error) {
	update := model.UserUpdate{
		Username: in.Username,
		Email:    in.Email,
		Birthday: in.Birthday,
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = hash
	}

	user, err := s.repo.Update(ctx, username, update)
	if err != nil {
		return nil, storeError(ctx, "update user", err, apperrors.ErrUserNotFound)
	}

	s.publish(ctx, events.SubjectUserUpdated, user.Username)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		return storeError(ctx, "delete user", err, apperrors.ErrUserNotFound)
	}

	s.publish(ctx, events.SubjectUserDeleted, username)
	return nil
}

func (s *userService) AddFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	user, err := s.repo.AddFavorite(ctx, username, movieID)
	if err != nil {
		return nil, storeError(ctx, "add favorite", err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	user, err := s.repo.RemoveFavorite(ctx, username, movieID)
	if err != nil {
		return nil, storeError(ctx, "remove favorite", err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// publish is best effort: a broker failure never fails the request.
func (s *userService) publish(ctx context.Context, subject, username string) {
	if err := s.publisher.Publish(ctx, subject, events.NewUserEvent(subject, username)); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("subject", subject).Msg("publish user event")
	}
}

