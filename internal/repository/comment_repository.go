package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"yatube/internal/models"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (text, created_at, author_id, post_id)
		VALUES ($1, $2, $3, $4)
		RETURNING comment_id
	`

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	err := r.db.QueryRowxContext(ctx, query,
		comment.Text,
		comment.CreatedAt,
		comment.AuthorID,
		comment.PostID,
	).Scan(&comment.CommentID)
	if err != nil {
		err = translateError(err)
		if IsConstraintViolation(err, ForeignKeyViolation) {
			return fmt.Errorf("пост с ID %d не найден: %w", comment.PostID, ErrNotFound)
		}
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}

	return nil
}

// ListByPost returns the comments newest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := `
		SELECT c.comment_id, c.text, c.created_at, c.author_id, c.post_id,
			u.username AS author_username
		FROM comments c
		JOIN users u ON u.user_id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.comment_id DESC
	`

	comments := []models.Comment{}
	err := r.db.SelectContext(ctx, &comments, query, postID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}

	return comments, nil
}
