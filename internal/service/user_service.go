package service

import (
	"context"
	"errors"

	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// UserService exposes the read-only user view plus the follow graph.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", id)
		}
		return nil, err
	}
	return user, nil
}

// IsAdmin reports whether the user has the admin flag. Services use this for
// moderation overrides.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// Follow adds a follow edge. Following yourself is rejected; following an
// account twice is a no-op.
func (s *UserService) Follow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if followerID == followeeID {
		return false, models.NewValidationError("You cannot follow yourself")
	}
	exists, err := s.userRepo.Exists(ctx, followeeID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, models.NewNotFoundError("user", followeeID)
	}
	return s.userRepo.Follow(ctx, followerID, followeeID)
}

func (s *UserService) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.userRepo.Unfollow(ctx, followerID, followeeID)
}

func (s *UserService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.userRepo.IsFollowing(ctx, followerID, followeeID)
}
