package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/logger"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/storage"
)

type ImageUpload struct {
	FileName string
	Size     int64
	File     io.Reader
}

type PostForm struct {
	Text    string `validate:"required"`
	GroupID *int64
	Image   *ImageUpload `validate:"-"`

	// ClearImage drops the current picture on edit; a new upload wins over it.
	ClearImage bool
}

type CommentForm struct {
	Text string `validate:"required"`
}

type PostDetail struct {
	Post             *models.Post
	Comments         []models.Comment
	AuthorPostsCount int
}

type PostService interface {
	Create(ctx context.Context, author *models.User, form PostForm) (*models.Post, error)
	Get(ctx context.Context, postID int64) (*PostDetail, error)
	Edit(ctx context.Context, editor *models.User, postID int64, form PostForm) (*models.Post, error)
	Delete(ctx context.Context, requester *models.User, postID int64) (*models.Post, error)
	AddComment(ctx context.Context, author *models.User, postID int64, form CommentForm) (*models.Comment, error)
}

type postService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
	storage     storage.Storage
	cache       *cache.FeedCache
	cfg         *config.Config
	validate    *validator.Validate
}

func NewPostService(rep *repository.Repository, storage storage.Storage, feedCache *cache.FeedCache, cfg *config.Config) PostService {
	return &postService{
		postRepo:    rep.Post,
		groupRepo:   rep.Group,
		commentRepo: rep.Comment,
		storage:     storage,
		cache:       feedCache,
		cfg:         cfg,
		validate:    newValidator(),
	}
}

func (p *postService) Create(ctx context.Context, author *models.User, form PostForm) (*models.Post, error) {
	if author == nil {
		return nil, ErrAuthenticationRequired
	}

	form.Text = strings.TrimSpace(form.Text)
	if err := p.checkForm(ctx, form); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     form.Text,
		AuthorID: author.UserID,
		GroupID:  form.GroupID,
	}

	objectName, err := p.upload(ctx, author.UserID, form.Image)
	if err != nil {
		return nil, err
	}
	post.Image = objectName

	if err := p.postRepo.Create(ctx, post); err != nil {
		p.removeImage(ctx, objectName)
		if repository.IsConstraintViolation(err, repository.ForeignKeyViolation) {
			return nil, fieldError("group", "Выберите корректный вариант.")
		}
		return nil, err
	}

	p.invalidate(post.AuthorID, post.GroupID)

	logger.L.Info("post created",
		zap.Int64("post_id", post.PostID),
		zap.Int64("author_id", post.AuthorID),
		zap.Stringer("post", post))

	return post, nil
}

// Get returns the post with its comments, newest first.
func (p *postService) Get(ctx context.Context, postID int64) (*PostDetail, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.storage != nil {
		post.ImageURL = p.storage.ImageURL(post.Image)
	}

	comments, err := p.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	count, err := p.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:             post,
		Comments:         comments,
		AuthorPostsCount: count,
	}, nil
}

func (p *postService) Edit(ctx context.Context, editor *models.User, postID int64, form PostForm) (*models.Post, error) {
	if editor == nil {
		return nil, ErrAuthenticationRequired
	}

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != editor.UserID {
		return nil, ErrNotAuthor
	}

	form.Text = strings.TrimSpace(form.Text)
	if err := p.checkForm(ctx, form); err != nil {
		return nil, err
	}

	oldGroup := post.GroupID
	oldImage := post.Image

	newImage, err := p.upload(ctx, editor.UserID, form.Image)
	if err != nil {
		return nil, err
	}

	post.Text = form.Text
	post.GroupID = form.GroupID
	switch {
	case newImage != "":
		post.Image = newImage
	case form.ClearImage:
		post.Image = ""
	}

	if err := p.postRepo.Update(ctx, post); err != nil {
		p.removeImage(ctx, newImage)
		if repository.IsConstraintViolation(err, repository.ForeignKeyViolation) {
			return nil, fieldError("group", "Выберите корректный вариант.")
		}
		return nil, err
	}

	if oldImage != post.Image {
		p.removeImage(ctx, oldImage)
	}

	p.invalidate(post.AuthorID, oldGroup, post.GroupID)

	logger.L.Info("post edited", zap.Int64("post_id", post.PostID))
	return post, nil
}

func (p *postService) Delete(ctx context.Context, requester *models.User, postID int64) (*models.Post, error) {
	if requester == nil {
		return nil, ErrAuthenticationRequired
	}

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != requester.UserID {
		return post, ErrNotAuthor
	}

	if err := p.postRepo.Delete(ctx, post.PostID, requester.UserID); err != nil {
		return nil, err
	}

	p.removeImage(ctx, post.Image)
	p.invalidate(post.AuthorID, post.GroupID)

	logger.L.Info("post deleted", zap.Int64("post_id", post.PostID))
	return post, nil
}

func (p *postService) AddComment(ctx context.Context, author *models.User, postID int64, form CommentForm) (*models.Comment, error) {
	if author == nil {
		return nil, ErrAuthenticationRequired
	}

	if _, err := p.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	form.Text = strings.TrimSpace(form.Text)
	if err := validate(p.validate, form); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:           form.Text,
		AuthorID:       author.UserID,
		PostID:         postID,
		AuthorUsername: author.Username,
	}

	if err := p.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (p *postService) checkForm(ctx context.Context, form PostForm) error {
	errs := ValidationErrors{}

	if err := validate(p.validate, form); err != nil {
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for field, msg := range verrs {
			errs[field] = msg
		}
	}

	if form.GroupID != nil {
		_, err := p.groupRepo.GetByID(ctx, *form.GroupID)
		if errors.Is(err, repository.ErrNotFound) {
			errs["group"] = "Выберите корректный вариант."
		} else if err != nil {
			return err
		}
	}

	if form.Image != nil && form.Image.Size > p.cfg.MaxUploadSize {
		errs["image"] = fmt.Sprintf("Размер файла не должен превышать %d байт.", p.cfg.MaxUploadSize)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (p *postService) upload(ctx context.Context, authorID int64, image *ImageUpload) (string, error) {
	if image == nil || image.File == nil {
		return "", nil
	}

	objectName, err := p.storage.UploadImage(ctx, authorID, image.FileName, image.File, image.Size)
	if err != nil {
		if errors.Is(err, storage.ErrNotAnImage) {
			return "", fieldError("image",
				"Загрузите правильное изображение. Файл, который вы загрузили, поврежден или не является изображением.")
		}
		return "", err
	}

	return objectName, nil
}

func (p *postService) removeImage(ctx context.Context, objectName string) {
	if objectName == "" || p.storage == nil {
		return
	}
	if err := p.storage.DeleteImage(ctx, objectName); err != nil {
		logger.L.Warn("не удалось удалить изображение", zap.String("object", objectName), zap.Error(err))
	}
}

func (p *postService) invalidate(authorID int64, groupIDs ...*int64) {
	if p.cache != nil {
		p.cache.InvalidatePost(authorID, groupIDs...)
	}
}
