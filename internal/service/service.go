package service

import (
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/repository"
	"yatube/internal/storage"
)

type Service struct {
	Auth   AuthService
	Feed   FeedService
	Post   PostService
	Follow FollowService
	Group  GroupService
	Tables TablesService
}

func NewService(rep *repository.Repository, db Pinger, cfg *config.Config, storage storage.Storage, feedCache *cache.FeedCache) *Service {
	return &Service{
		Auth:   NewAuthService(rep.User, cfg),
		Feed:   NewFeedService(rep, storage, feedCache, cfg.PageSize),
		Post:   NewPostService(rep, storage, feedCache, cfg),
		Follow: NewFollowService(rep.User, rep.Follow),
		Group:  NewGroupService(rep.Group, feedCache),
		Tables: NewTablesService(db, rep.Tables),
	}
}
