package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"yatube/internal/cache"
	"yatube/internal/logger"
	"yatube/internal/models"
	"yatube/internal/repository"
)

type GroupForm struct {
	Title       string `validate:"max=200"`
	Slug        string `validate:"required,max=50,slug"`
	Description string
}

type GroupService interface {
	List(ctx context.Context) ([]models.Group, error)
	Create(ctx context.Context, form GroupForm) (*models.Group, error)
	// Delete removes the group and reports how many posts lost it.
	Delete(ctx context.Context, slug string) (int64, error)
}

type groupService struct {
	groupRepo repository.GroupRepository
	cache     *cache.FeedCache
	validate  *validator.Validate
}

func NewGroupService(groupRepo repository.GroupRepository, feedCache *cache.FeedCache) GroupService {
	return &groupService{
		groupRepo: groupRepo,
		cache:     feedCache,
		validate:  newValidator(),
	}
}

func (s *groupService) List(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *groupService) Create(ctx context.Context, form GroupForm) (*models.Group, error) {
	form.Slug = strings.TrimSpace(form.Slug)
	if err := validate(s.validate, form); err != nil {
		return nil, err
	}

	group := &models.Group{
		Title:       strings.TrimSpace(form.Title),
		Slug:        form.Slug,
		Description: form.Description,
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		if repository.IsConstraintViolation(err, repository.UniqueViolation) {
			return nil, fieldError("slug", "Группа с таким адресом уже существует.")
		}
		return nil, err
	}

	logger.L.Info("group created", zap.Int64("group_id", group.GroupID), zap.String("slug", group.Slug))
	return group, nil
}

func (s *groupService) Delete(ctx context.Context, slug string) (int64, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}

	detached, err := s.groupRepo.Delete(ctx, group.GroupID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при удалении группы %s: %w", slug, err)
	}

	// cached pages of other views still link the group
	if s.cache != nil {
		s.cache.Clear()
	}

	logger.L.Info("group deleted",
		zap.String("slug", slug),
		zap.Int64("posts_detached", detached))
	return detached, nil
}
