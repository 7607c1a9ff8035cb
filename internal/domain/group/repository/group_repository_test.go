package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	baseModel "community_hub/pkg/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGroupRepository_AddMember(t *testing.T) {
	ctx := context.Background()
	groupID := baseModel.NewID()
	userID := baseModel.NewID()

	t.Run("New member bumps the counter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGroupRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "groups" .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(groupID))
		mock.ExpectExec(`INSERT INTO "group_members" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "groups" SET "followers"=GREATEST\(followers \+ \$1, 0\)`).
			WithArgs(1, groupID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		changed, err := repo.AddMember(ctx, groupID, userID)
		assert.NoError(t, err)
		assert.True(t, changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Existing member leaves the counter alone", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGroupRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "groups" .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(groupID))
		mock.ExpectExec(`INSERT INTO "group_members" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		changed, err := repo.AddMember(ctx, groupID, userID)
		assert.NoError(t, err)
		assert.False(t, changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing group rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGroupRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "groups" .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		changed, err := repo.AddMember(ctx, groupID, userID)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
		assert.False(t, changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Counter failure rolls back the insert", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGroupRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "groups" .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(groupID))
		mock.ExpectExec(`INSERT INTO "group_members"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "groups"`).
			WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		_, err := repo.AddMember(ctx, groupID, userID)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGroupRepository_RemoveFollower(t *testing.T) {
	ctx := context.Background()
	groupID := baseModel.NewID()
	userID := baseModel.NewID()

	t.Run("Unfollow decrements", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGroupRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "groups" .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(groupID))
		mock.ExpectExec(`DELETE FROM "group_followers" WHERE group_id = \$1 AND user_id = \$2`).
			WithArgs(groupID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "groups" SET "followers"=GREATEST`).
			WithArgs(-1, groupID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		changed, err := repo.RemoveFollower(ctx, groupID, userID)
		assert.NoError(t, err)
		assert.True(t, changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unfollow when not following is a no-op", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGroupRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "groups"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(groupID))
		mock.ExpectExec(`DELETE FROM "group_followers"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		changed, err := repo.RemoveFollower(ctx, groupID, userID)
		assert.NoError(t, err)
		assert.False(t, changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGroupRepository_IsMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)
	groupID := baseModel.NewID()
	userID := baseModel.NewID()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "group_members" WHERE group_id = \$1 AND user_id = \$2`).
		WithArgs(groupID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.IsMember(context.Background(), groupID, userID)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetDetail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	groupID := baseModel.NewID()
	postID := baseModel.NewID()
	authorID := baseModel.NewID()
	commenterID := baseModel.NewID()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "groups" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "followers", "created_at"}).
			AddRow(groupID, "ATG World", 0, now))
	mock.ExpectQuery(`SELECT \* FROM "group_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "user_id"}))
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE "posts"."group_id" = \$1 .* ORDER BY posts.created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "title", "content", "author_id", "group_id", "views", "created_at"}).
			AddRow(postID, "Article", "Hello", "Body", authorID, groupID, 3, now))
	mock.ExpectQuery(`SELECT "id","name","email","avatar" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "avatar"}).
			AddRow(authorID, "Author", "author@example.com", ""))
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE "comments"."post_id" = \$1 .* ORDER BY comments.created_at ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "author_id", "content", "likes", "created_at"}).
			AddRow(baseModel.NewID(), postID, commenterID, "Nice post", 2, now))
	mock.ExpectQuery(`SELECT "id","name","email","avatar" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "avatar"}).
			AddRow(commenterID, "Commenter", "commenter@example.com", ""))
	mock.ExpectQuery(`SELECT \* FROM "post_reactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "user_id", "kind"}).
			AddRow(postID, commenterID, "like"))

	group, err := repo.GetDetail(context.Background(), groupID)
	require.NoError(t, err)
	require.Len(t, group.Posts, 1)

	post := group.Posts[0]
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "Nice post", post.Comments[0].Content)
	require.NotNil(t, post.Comments[0].Author)
	assert.Equal(t, "Commenter", post.Comments[0].Author.Name)
	require.NotNil(t, post.Author)
	assert.Equal(t, "Author", post.Author.Name)
	assert.Equal(t, []string{commenterID}, post.Likes)
	assert.Empty(t, group.Members)
	assert.NoError(t, mock.ExpectationsWereMet())
}
