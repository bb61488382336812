package service

import (
	"context"
	"fmt"

	"moonflix/internal/auth"
	"moonflix/internal/model"
)

// AuthService handles authentication operations.
type AuthService interface {
	// Login checks the credentials and issues a bearer token for the user.
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
}

type authService struct {
	authenticator auth.Authenticator
	jwtService    *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtService *auth.JWTService) AuthService {
	return &authService{
		authenticator: authenticator,
		jwtService:    jwtService,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.jwtService.GenerateToken(user.Username)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}
