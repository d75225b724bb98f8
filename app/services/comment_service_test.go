package services

import (
	"testing"

	"github.com/zidan444/blog-app/app/models"
	"github.com/zidan444/blog-app/app/repositories"
	"github.com/zidan444/blog-app/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService(t *testing.T) {
	postRepo := mock.NewPostRepository()
	userRepo, users := newTestUsers(t, "alice", "bob")
	service := NewCommentService(postRepo, userRepo)

	post := &models.Post{Title: "Test Post", Content: "Test Content", AuthorID: users[0].ID}
	require.NoError(t, postRepo.Create(post))

	t.Run("add comment", func(t *testing.T) {
		comment, err := service.AddComment(post.ID, users[1].ID, "  Test Comment Content ")
		require.NoError(t, err)
		assert.Equal(t, 1, comment.ID)
		assert.Equal(t, "Test Comment Content", comment.Text)
		assert.False(t, comment.CreatedAt.IsZero())
	})

	t.Run("empty comment is rejected", func(t *testing.T) {
		_, err := service.AddComment(post.ID, users[1].ID, "   ")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := service.AddComment(404, users[1].ID, "hello")
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		_, err = service.AddComment(404, users[1].ID, "   ")
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		_, err = service.ListPostComments(404)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("anonymous comment", func(t *testing.T) {
		_, err := service.AddComment(post.ID, 0, "hello")
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("list post comments", func(t *testing.T) {
		_, err := service.AddComment(post.ID, users[0].ID, "Reply")
		require.NoError(t, err)

		comments, err := service.ListPostComments(post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "bob", comments[0].UserName)
		assert.Equal(t, "alice", comments[1].UserName)
		assert.Equal(t, 2, comments[1].ID)
	})
}
