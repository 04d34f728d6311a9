package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"yatube/internal/models"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the edge. A duplicate pair or a self-follow comes back as
// *ConstraintViolation from the table constraints.
func (r *followRepository) Create(ctx context.Context, userID, authorID int64) error {
	query := `
		INSERT INTO follows (user_id, author_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, userID, authorID, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка при создании подписки: %w", translateError(err))
	}

	return nil
}

func (r *followRepository) Delete(ctx context.Context, userID, authorID int64) error {
	query := `DELETE FROM follows WHERE user_id = $1 AND author_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, authorID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении подписки: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("подписка %d на %d не найдена: %w", userID, authorID, ErrNotFound)
	}

	return nil
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, authorID)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке подписки: %w", err)
	}

	return exists, nil
}

func (r *followRepository) FollowersOf(ctx context.Context, authorID int64) ([]models.User, error) {
	query := `
		SELECT u.* FROM users u
		JOIN follows f ON f.user_id = u.user_id
		WHERE f.author_id = $1
		ORDER BY u.username
	`

	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении подписчиков: %w", err)
	}

	return users, nil
}

func (r *followRepository) FollowingOf(ctx context.Context, userID int64) ([]models.User, error) {
	query := `
		SELECT u.* FROM users u
		JOIN follows f ON f.author_id = u.user_id
		WHERE f.user_id = $1
		ORDER BY u.username
	`

	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении подписок: %w", err)
	}

	return users, nil
}
