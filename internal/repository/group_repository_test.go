package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/models"
)

var groupColumns = []string{"group_id", "title", "slug", "description"}

func TestGroupRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	t.Run("Успешное создание группы", func(t *testing.T) {
		group := &models.Group{Title: "Тестовая группа", Slug: "test_slug", Description: "Описание"}

		mock.ExpectQuery(`INSERT INTO groups`).
			WithArgs("Тестовая группа", "test_slug", "Описание").
			WillReturnRows(sqlmock.NewRows([]string{"group_id"}).AddRow(3))

		require.NoError(t, repo.Create(ctx, group))
		assert.Equal(t, int64(3), group.GroupID)
	})

	t.Run("Slug уже занят", func(t *testing.T) {
		group := &models.Group{Title: "Другая", Slug: "test_slug"}

		mock.ExpectQuery(`INSERT INTO groups`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "groups_slug_key"})

		err := repo.Create(ctx, group)

		assert.True(t, IsConstraintViolation(err, UniqueViolation))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	t.Run("Группа найдена", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM groups WHERE slug`).
			WithArgs("test_slug").
			WillReturnRows(sqlmock.NewRows(groupColumns).AddRow(1, "Тестовая группа", "test_slug", ""))

		group, err := repo.GetBySlug(ctx, "test_slug")

		require.NoError(t, err)
		assert.Equal(t, int64(1), group.GroupID)
		assert.Equal(t, "Тестовая группа", group.String())
	})

	t.Run("Группа не найдена", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM groups WHERE slug`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		group, err := repo.GetBySlug(ctx, "missing")

		assert.Nil(t, group)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	mock.ExpectQuery(`SELECT \* FROM groups ORDER BY title`).
		WillReturnRows(sqlmock.NewRows(groupColumns).
			AddRow(2, "Альфа", "alpha", "").
			AddRow(1, "Бета", "beta", ""))

	groups, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "alpha", groups[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	t.Run("Посты группы остаются без группы", func(t *testing.T) {
		const k = 4

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE posts SET group_id = NULL WHERE group_id`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, k))
		mock.ExpectExec(`DELETE FROM groups WHERE group_id`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		detached, err := repo.Delete(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(k), detached)
	})

	t.Run("Группа не найдена", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE posts SET group_id = NULL`).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM groups`).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.Delete(ctx, 9)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Ошибка при отвязке постов", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE posts SET group_id = NULL`).
			WithArgs(int64(5)).
			WillReturnError(errors.New("deadlock"))
		mock.ExpectRollback()

		_, err := repo.Delete(ctx, 5)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка при отвязке постов")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
