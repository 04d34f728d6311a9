package service

import (
	"context"
	"fmt"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/paginate"
	"yatube/internal/repository"
	"yatube/internal/storage"
)

type PostPage = paginate.Page[models.Post]

type ProfileView struct {
	Author         *models.User
	Page           *PostPage
	PostsCount     int
	Followers      []models.User
	Followings     []models.User
	FollowerCount  int
	FollowingCount int
	// IsFollowing is true only for an authenticated viewer other than the
	// author who already follows them.
	IsFollowing bool
}

type FeedService interface {
	Index(ctx context.Context, page int) (*PostPage, error)
	Group(ctx context.Context, slug string, page int) (*models.Group, *PostPage, error)
	Profile(ctx context.Context, username string, viewer *models.User, page int) (*ProfileView, error)
	Follow(ctx context.Context, viewer *models.User, page int) (*PostPage, error)
}

type feedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	storage    storage.Storage
	cache      *cache.FeedCache
	paginator  paginate.Paginator
}

func NewFeedService(rep *repository.Repository, storage storage.Storage, feedCache *cache.FeedCache, pageSize int) FeedService {
	return &feedService{
		postRepo:   rep.Post,
		groupRepo:  rep.Group,
		userRepo:   rep.User,
		followRepo: rep.Follow,
		storage:    storage,
		cache:      feedCache,
		paginator:  paginate.New(pageSize),
	}
}

func (s *feedService) Index(ctx context.Context, page int) (*PostPage, error) {
	return s.cachedPage(ctx, cache.Key{View: cache.ViewIndex, Page: page},
		s.postRepo.CountAll,
		func(ctx context.Context, limit, offset int) ([]models.Post, error) {
			return s.postRepo.ListAll(ctx, limit, offset)
		})
}

func (s *feedService) Group(ctx context.Context, slug string, page int) (*models.Group, *PostPage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	posts, err := s.cachedPage(ctx, cache.Key{View: cache.ViewGroup, Filter: group.GroupID, Page: page},
		func(ctx context.Context) (int, error) {
			return s.postRepo.CountByGroup(ctx, group.GroupID)
		},
		func(ctx context.Context, limit, offset int) ([]models.Post, error) {
			return s.postRepo.ListByGroup(ctx, group.GroupID, limit, offset)
		})
	if err != nil {
		return nil, nil, err
	}

	return group, posts, nil
}

func (s *feedService) Profile(ctx context.Context, username string, viewer *models.User, page int) (*ProfileView, error) {
	author, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.cachedPage(ctx, cache.Key{View: cache.ViewProfile, Filter: author.UserID, Page: page},
		func(ctx context.Context) (int, error) {
			return s.postRepo.CountByAuthor(ctx, author.UserID)
		},
		func(ctx context.Context, limit, offset int) ([]models.Post, error) {
			return s.postRepo.ListByAuthor(ctx, author.UserID, limit, offset)
		})
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.FollowersOf(ctx, author.UserID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении подписчиков: %w", err)
	}

	followings, err := s.followRepo.FollowingOf(ctx, author.UserID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении подписок: %w", err)
	}

	view := &ProfileView{
		Author:         author,
		Page:           posts,
		PostsCount:     posts.Total,
		Followers:      followers,
		Followings:     followings,
		FollowerCount:  len(followers),
		FollowingCount: len(followings),
	}

	if viewer != nil && viewer.UserID != author.UserID {
		for _, follower := range followers {
			if follower.UserID == viewer.UserID {
				view.IsFollowing = true
				break
			}
		}
	}

	return view, nil
}

// Follow is personal, so it always reads through to the database.
func (s *feedService) Follow(ctx context.Context, viewer *models.User, page int) (*PostPage, error) {
	if viewer == nil {
		return nil, ErrAuthenticationRequired
	}

	return s.loadPage(ctx, page,
		func(ctx context.Context) (int, error) {
			return s.postRepo.CountByFollower(ctx, viewer.UserID)
		},
		func(ctx context.Context, limit, offset int) ([]models.Post, error) {
			return s.postRepo.ListByFollower(ctx, viewer.UserID, limit, offset)
		})
}

type (
	countFunc func(ctx context.Context) (int, error)
	listFunc  func(ctx context.Context, limit, offset int) ([]models.Post, error)
)

func (s *feedService) cachedPage(ctx context.Context, key cache.Key, count countFunc, list listFunc) (*PostPage, error) {
	if s.cache != nil {
		if page, ok := s.cache.Get(key); ok {
			return page, nil
		}
	}

	page, err := s.loadPage(ctx, key.Page, count, list)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, page)
	}
	return page, nil
}

func (s *feedService) loadPage(ctx context.Context, number int, count countFunc, list listFunc) (*PostPage, error) {
	if number < 1 {
		number = 1
	}

	total, err := count(ctx)
	if err != nil {
		return nil, err
	}

	posts := []models.Post{}
	if s.paginator.InRange(number, total) {
		limit, offset := s.paginator.Window(number)
		posts, err = list(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
	}

	withImageURLs(s.storage, posts)
	return paginate.NewPage(posts, number, s.paginator.PageSize, total), nil
}

func withImageURLs(store storage.Storage, posts []models.Post) {
	if store == nil {
		return
	}
	for i := range posts {
		posts[i].ImageURL = store.ImageURL(posts[i].Image)
	}
}
