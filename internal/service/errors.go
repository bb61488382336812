package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "moonflix/internal/errors"
	"moonflix/internal/logger"
	"moonflix/internal/repository"
)

// storeError translates a repository failure into a domain error. notFound is
// returned for repository.ErrNotFound; anything unexpected is logged and
// reported as apperrors.ErrStoreUnavailable.
func storeError(ctx context.Context, op string, err error, notFound error) error {
	var dup *repository.DuplicateKeyError
	switch {
	case errors.As(err, &dup):
		if dup.Field == "email" {
			return apperrors.ErrEmailTaken
		}
		return fmt.Errorf("%s: %w", dup.Value, apperrors.ErrUsernameTaken)
	case errors.Is(err, repository.ErrNotFound) && notFound != nil:
		return notFound
	default:
		logger.FromContext(ctx).Error().Err(err).Str("op", op).Msg("store operation failed")
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStoreUnavailable, err)
	}
}
