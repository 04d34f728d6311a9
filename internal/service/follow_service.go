package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"yatube/internal/logger"
	"yatube/internal/models"
	"yatube/internal/repository"
)

type FollowService interface {
	Follow(ctx context.Context, follower *models.User, username string) error
	Unfollow(ctx context.Context, follower *models.User, username string) error
}

type followService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewFollowService(userRepo repository.UserRepository, followRepo repository.FollowRepository) FollowService {
	return &followService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// Follow is idempotent. Following yourself or someone you already follow
// changes nothing; the database constraints catch concurrent duplicates.
func (s *followService) Follow(ctx context.Context, follower *models.User, username string) error {
	if follower == nil {
		return ErrAuthenticationRequired
	}

	author, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	if author.UserID == follower.UserID {
		return nil
	}

	exists, err := s.followRepo.Exists(ctx, follower.UserID, author.UserID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.followRepo.Create(ctx, follower.UserID, author.UserID)
	switch {
	case repository.IsConstraintViolation(err, repository.UniqueViolation),
		repository.IsConstraintViolation(err, repository.CheckViolation):
		logger.L.Debug("follow already present", zap.Error(err))
		return nil
	case err != nil:
		return fmt.Errorf("ошибка при подписке на %s: %w", username, err)
	}

	logger.L.Info("follow created",
		zap.Int64("user_id", follower.UserID),
		zap.Int64("author_id", author.UserID))
	return nil
}

func (s *followService) Unfollow(ctx context.Context, follower *models.User, username string) error {
	if follower == nil {
		return ErrAuthenticationRequired
	}

	author, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.followRepo.Delete(ctx, follower.UserID, author.UserID); err != nil {
		return err
	}

	logger.L.Info("follow removed",
		zap.Int64("user_id", follower.UserID),
		zap.Int64("author_id", author.UserID))
	return nil
}
