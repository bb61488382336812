package auth

import (
	"context"
	stderrors "errors"
	"fmt"

	"moonflix/internal/errors"
	"moonflix/internal/model"
	"moonflix/internal/repository"
)

// Authenticator checks a username/password pair against stored users.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

// LocalAuthenticator authenticates against the user repository.
type LocalAuthenticator struct {
	users  repository.UserRepository
	hasher PasswordHasher
	// dummyDigest is compared against when the username is unknown so that
	// both failure paths cost one hash comparison.
	dummyDigest string
}

// NewLocalAuthenticator creates an authenticator over users.
func NewLocalAuthenticator(users repository.UserRepository, hasher PasswordHasher) *LocalAuthenticator {
	dummy, _ := hasher.Hash("moonflix-unknown-user")
	return &LocalAuthenticator{users: users, hasher: hasher, dummyDigest: dummy}
}

// Authenticate returns the stored user when password matches. Unknown
// usernames and wrong passwords both yield errors.ErrInvalidCredentials.
func (a *LocalAuthenticator) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if stderrors.Is(err, repository.ErrNotFound) {
		a.hasher.Verify(password, a.dummyDigest)
		return nil, errors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, errors.ErrInvalidCredentials
	}
	return user, nil
}
