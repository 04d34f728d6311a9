package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"yatube/internal/models"
)

const (
	postSelect = `
		SELECT p.post_id, p.text, p.created_at, p.image, p.author_id, p.group_id,
			u.username AS author_username, g.slug AS group_slug, g.title AS group_title
		FROM posts p
		JOIN users u ON u.user_id = p.author_id
		LEFT JOIN groups g ON g.group_id = p.group_id
	`
	postOrder = ` ORDER BY p.created_at DESC, p.post_id DESC`
)

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (text, created_at, image, author_id, group_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING post_id
	`

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	err := r.DB.QueryRowxContext(ctx, query,
		post.Text,
		post.CreatedAt,
		post.Image,
		post.AuthorID,
		post.GroupID,
	).Scan(&post.PostID)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", translateError(err))
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	query := postSelect + ` WHERE p.post_id = $1`

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %d не найден: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

// Update rewrites the editable fields. The author is part of the WHERE clause,
// so a post can never be changed on behalf of someone else.
func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			text = $1,
			image = $2,
			group_id = $3
		WHERE post_id = $4 AND author_id = $5
	`

	result, err := r.DB.ExecContext(ctx, query,
		post.Text,
		post.Image,
		post.GroupID,
		post.PostID,
		post.AuthorID,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении поста: %w", translateError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост с ID %d автора %d не найден: %w", post.PostID, post.AuthorID, ErrNotFound)
	}

	return nil
}

// Delete removes the post; its comments go with it through the foreign key.
func (r *PostRepositoryImpl) Delete(ctx context.Context, postID, authorID int64) error {
	query := `DELETE FROM posts WHERE post_id = $1 AND author_id = $2`

	result, err := r.DB.ExecContext(ctx, query, postID, authorID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост с ID %d автора %d не найден: %w", postID, authorID, ErrNotFound)
	}

	return nil
}

func (r *PostRepositoryImpl) ListAll(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return r.list(ctx, postSelect+postOrder+` LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *PostRepositoryImpl) CountAll(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts`)
}

func (r *PostRepositoryImpl) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]models.Post, error) {
	query := postSelect + ` WHERE p.group_id = $1` + postOrder + ` LIMIT $2 OFFSET $3`
	return r.list(ctx, query, groupID, limit, offset)
}

func (r *PostRepositoryImpl) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts WHERE group_id = $1`, groupID)
}

func (r *PostRepositoryImpl) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]models.Post, error) {
	query := postSelect + ` WHERE p.author_id = $1` + postOrder + ` LIMIT $2 OFFSET $3`
	return r.list(ctx, query, authorID, limit, offset)
}

func (r *PostRepositoryImpl) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID)
}

func (r *PostRepositoryImpl) ListByFollower(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error) {
	query := postSelect +
		` WHERE p.author_id IN (SELECT f.author_id FROM follows f WHERE f.user_id = $1)` +
		postOrder + ` LIMIT $2 OFFSET $3`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *PostRepositoryImpl) CountByFollower(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM posts
		WHERE author_id IN (SELECT author_id FROM follows WHERE user_id = $1)
	`
	return r.count(ctx, query, userID)
}

func (r *PostRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	posts := []models.Post{}

	err := r.DB.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) count(ctx context.Context, query string, args ...any) (int, error) {
	var count int

	err := r.DB.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете постов: %w", err)
	}

	return count, nil
}
